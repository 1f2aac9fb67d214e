// Command adminkey sets or rotates the server's admin key. The key is read
// from the terminal without echo, or generated with -generate and printed
// once. Database and hashing settings use the server's flags and config file.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/cryptox"
	"github.com/dmitrijs2005/mysterycard/internal/flagx"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
	"github.com/dmitrijs2005/mysterycard/internal/server/config"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mysterycard/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"
)

const generatedKeyBytes = 24

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type keyStore interface {
	Bootstrap(ctx context.Context, key string) (bool, error)
	Rotate(ctx context.Context, newKey string) error
}

// openKeyStore is a test seam; it returns the store and a closer.
var openKeyStore = func(ctx context.Context, cfg *config.Config) (keyStore, func() error, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	hasher, err := cryptox.NewHasher(cfg.HashAlgorithm, cfg.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return services.NewAdminKeyService(db, rm, hasher, codec), db.Close, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("adminkey: %v", err)
	}
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var generate bool
	fs := flag.NewFlagSet("adminkey", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&generate, "generate", false, "generate a random key and print it")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-generate"})); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var key []byte
	if generate {
		s, err := common.MakeRandHexString(generatedKeyBytes)
		if err != nil {
			return err
		}
		key = []byte(s)
	} else {
		key, err = promptKey(w)
		if err != nil {
			return err
		}
	}
	defer common.WipeByteArray(key)

	store, closeFn, err := openKeyStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := setKey(ctx, store, string(key)); err != nil {
		return err
	}

	if generate {
		fmt.Fprintf(w, "Admin key: %s\n", key)
	}
	fmt.Fprintln(w, "Admin key updated")
	return nil
}

// setKey rotates the stored key, creating it when none exists yet. If a
// server start creates the row between the two calls, the rotation is
// retried so the stored key is always the one given here.
func setKey(ctx context.Context, store keyStore, key string) error {
	err := store.Rotate(ctx, key)
	if !errors.Is(err, common.ErrorNotConfigured) {
		return err
	}

	created, err := store.Bootstrap(ctx, key)
	if err != nil || created {
		return err
	}
	return store.Rotate(ctx, key)
}

func promptKey(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "New admin key: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(w, "Repeat admin key: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	defer common.WipeByteArray(second)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}

	if string(first) != string(second) {
		common.WipeByteArray(first)
		return nil, errors.New("keys do not match")
	}
	return first, nil
}
