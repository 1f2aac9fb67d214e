package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mysterycard/internal/client/services"
	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

// getSimpleText, getInt and getPassword are indirections for tests.
var (
	getSimpleText = GetSimpleText
	getInt        = GetInt
	getPassword   = GetPassword
)

var errAdminOnly = errors.New("admin session required, use adminkey")

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.game.Register(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered, you can login now")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.game.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s until %s\n", session.Email, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) AdminKey(ctx context.Context) error {
	key, err := getPassword("Enter admin key", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	if _, err := a.game.Elevate(ctx, string(key)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Admin session started")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.game.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	acc, err := a.game.Profile(ctx)
	if err != nil {
		return err
	}
	role := "player"
	if acc.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "#%d %s (%s), member since %s\n", acc.ID, acc.Email, role, acc.CreatedAt.Format("2006-01-02"))
	return nil
}

func (a *App) Play(ctx context.Context) error {
	card, err := a.game.Play(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mystery card #%d\n  %s\n", card.CardID, card.ImageURL)
	fmt.Fprintln(a.out, "Guess its type, level and element with: guess <type> <level> <element>")
	return nil
}

// Guess takes "<type> <level> <element>" from args or prompts for each.
func (a *App) Guess(ctx context.Context, args []string) error {
	g, err := a.readGuess(args)
	if err != nil {
		return err
	}

	resp, err := a.game.Guess(ctx, g)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "  type %s  level %s  element %s\n",
		mark(resp.Results.Type), mark(resp.Results.Level), mark(resp.Results.ElementClass))
	if resp.AllCorrect {
		fmt.Fprintf(a.out, "Correct! It is %s\n  %s\n", resp.CardName, resp.ImageURL)
	} else {
		fmt.Fprintln(a.out, "Not quite, try again")
	}
	return nil
}

func (a *App) readGuess(args []string) (services.Guess, error) {
	if len(args) == 3 {
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return services.Guess{}, fmt.Errorf("%q is not a number", args[1])
		}
		return services.Guess{Type: args[0], Level: level, ElementClass: args[2]}, nil
	}
	if len(args) != 0 {
		return services.Guess{}, errors.New("usage: guess <type> <level> <element>")
	}

	typ, err := getSimpleText(a.reader, "Type ("+joinTypes()+")", a.out)
	if err != nil {
		return services.Guess{}, err
	}
	level, err := getInt(a.reader, fmt.Sprintf("Level (%d-%d)", wire.MinLevel, wire.MaxLevel), a.out)
	if err != nil {
		return services.Guess{}, err
	}
	element, err := getSimpleText(a.reader, "Element ("+joinElements()+")", a.out)
	if err != nil {
		return services.Guess{}, err
	}
	return services.Guess{Type: typ, Level: level, ElementClass: element}, nil
}

func (a *App) History(ctx context.Context) error {
	rounds, stats, err := a.game.History(ctx, historyLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Played %d, solved %d\n", stats.Played, stats.Solved)
	for _, r := range rounds {
		outcome := "miss"
		if r.AllCorrect {
			outcome = "solved: " + r.CardName
		}
		fmt.Fprintf(a.out, "  %s  card #%d  %s/%d/%s  %s\n",
			r.PlayedAt.Local().Format("2006-01-02 15:04"), r.CardID, r.GuessedType, r.GuessedLevel, r.GuessedElement, outcome)
	}
	return nil
}

func (a *App) ClearHistory(ctx context.Context) error {
	if err := a.game.ClearHistory(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "History cleared")
	return nil
}

func (a *App) Cards(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	cards, err := a.admin.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cards {
		fmt.Fprintf(a.out, "#%d  %-24s %s / %d / %s\n", c.ID, c.Name, c.Type, c.Level, c.ElementClass)
	}
	fmt.Fprintf(a.out, "%d card(s)\n", len(cards))
	return nil
}

func (a *App) AddCard(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	req := &wire.CardRequest{}
	var err error
	if req.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if req.HiddenImageRef, err = getSimpleText(a.reader, "Hidden image (URL or uploaded key)", a.out); err != nil {
		return err
	}
	if req.RevealedImageRef, err = getSimpleText(a.reader, "Revealed image (URL or uploaded key)", a.out); err != nil {
		return err
	}
	if req.Type, err = getSimpleText(a.reader, "Type ("+joinTypes()+")", a.out); err != nil {
		return err
	}
	if req.Level, err = getInt(a.reader, "Level", a.out); err != nil {
		return err
	}
	if req.ElementClass, err = getSimpleText(a.reader, "Element ("+joinElements()+")", a.out); err != nil {
		return err
	}
	req.Type = strings.ToLower(req.Type)
	req.ElementClass = strings.ToLower(req.ElementClass)

	card, err := a.admin.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Card #%d created\n", card.ID)
	return nil
}

func (a *App) DeleteCard(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	if len(args) != 1 {
		return errors.New("usage: delcard <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not a card id", args[0])
	}
	if err := a.admin.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Card #%d deleted\n", id)
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	if len(args) != 1 {
		return errors.New("usage: upload <file>")
	}
	key, err := a.admin.UploadImage(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded, use this key as an image: %s\n", key)
	return nil
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func joinTypes() string {
	return strings.Join(wire.CardTypes, ", ")
}

func joinElements() string {
	return strings.Join(wire.Elements, ", ")
}
