package adminconfig

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mysterycard/internal/common"
)

const (
	getQ    = `(?s)^SELECT\s+id,\s*admin_key_hash,\s*updated_at\s+FROM\s+admin_config\s+WHERE\s+id\s*=\s*\$1\s*$`
	insertQ = `(?s)^INSERT\s+INTO\s+admin_config\s*\(id,\s*admin_key_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(id\)\s*DO\s+NOTHING\s*$`
	updateQ = `(?s)^UPDATE\s+admin_config\s+SET\s+admin_key_hash\s*=\s*\$1,\s*updated_at\s*=\s*CURRENT_TIMESTAMP\s+WHERE\s+id\s*=\s*\$2\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return NewPostgresRepository(db), mock, db
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(getQ).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_key_hash", "updated_at"}).AddRow(int64(1), "hash", ts))

	got, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 1 || got.AdminKeyHash != "hash" || !got.UpdatedAt.Equal(ts) {
		t.Fatalf("unexpected config: %+v", got)
	}
}

func TestGet_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs(1).WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background()); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCreateIfAbsent(t *testing.T) {
	tests := []struct {
		name     string
		result   sql.Result
		err      error
		want     bool
		wantDBEr bool
	}{
		{name: "created", result: sqlmock.NewResult(0, 1), want: true},
		{name: "already present", result: sqlmock.NewResult(0, 0), want: false},
		{name: "db error", err: errors.New("db down"), wantDBEr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(insertQ).WithArgs(1, "hash")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			got, err := repo.CreateIfAbsent(context.Background(), "hash")
			if tt.wantDBEr {
				if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
					t.Fatalf("expected wrapped db error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateIfAbsent error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("created = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WithArgs("new", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateQ).WithArgs("new", 1).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateHash(context.Background(), "new"); err != nil {
		t.Fatalf("UpdateHash error: %v", err)
	}
	if err := repo.UpdateHash(context.Background(), "new"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
