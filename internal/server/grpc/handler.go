package grpc

import (
	"context"

	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/server/models"
	"github.com/dmitrijs2005/mysterycard/internal/server/services"
	"github.com/dmitrijs2005/mysterycard/internal/wire"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *wire.Empty) (*wire.PingResponse, error) {
	return &wire.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *wire.CredentialsRequest) (*wire.AccountResponse, error) {
	account, err := s.accounts.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodRegister, err)
	}

	s.logger.Info(ctx, "Registered", "account_id", account.ID)
	return &wire.AccountResponse{Account: accountView(account)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *wire.CredentialsRequest) (*wire.SessionResponse, error) {
	res, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodLogin, err)
	}
	return sessionResponse(res), nil
}

func (s *GRPCServer) AdminKey(ctx context.Context, req *wire.AdminKeyRequest) (*wire.SessionResponse, error) {
	res, err := s.adminKeys.Elevate(ctx, req.Key)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodAdminKey, err)
	}

	s.logger.Info(ctx, "Admin session issued")
	return sessionResponse(res), nil
}

func (s *GRPCServer) StartGame(ctx context.Context, _ *wire.Empty) (*wire.MysteryCardResponse, error) {
	card, err := s.game.StartGame(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodStartGame, err)
	}

	url, err := s.images.Resolve(ctx, card.HiddenImageRef)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodStartGame, err)
	}

	return &wire.MysteryCardResponse{CardID: card.ID, ImageURL: url}, nil
}

func (s *GRPCServer) SubmitGuess(ctx context.Context, req *wire.GuessRequest) (*wire.GuessResponse, error) {
	res, err := s.game.SubmitGuess(ctx, req.CardID, models.Guess{
		Type:         models.CardType(req.Type),
		Level:        req.Level,
		ElementClass: models.Element(req.ElementClass),
	})
	if err != nil {
		return nil, s.fail(ctx, wire.MethodSubmitGuess, err)
	}
	s.observer.ObserveGuess(res.AllCorrect)

	out := &wire.GuessResponse{
		AllCorrect: res.AllCorrect,
		Results: wire.FieldResults{
			Type:         res.PerField.Type,
			Level:        res.PerField.Level,
			ElementClass: res.PerField.ElementClass,
		},
	}
	if res.Reveal != nil {
		url, err := s.images.Resolve(ctx, res.Reveal.RevealedImageRef)
		if err != nil {
			return nil, s.fail(ctx, wire.MethodSubmitGuess, err)
		}
		out.CardName = res.Reveal.Name
		out.ImageURL = url
	}

	return out, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *wire.Empty) (*wire.AccountResponse, error) {
	id, err := callerAccountID(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodGetProfile, err)
	}

	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodGetProfile, err)
	}
	return &wire.AccountResponse{Account: accountView(account)}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *wire.UpdateProfileRequest) (*wire.AccountResponse, error) {
	id, err := callerAccountID(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodUpdateProfile, err)
	}

	account, err := s.accounts.UpdateProfile(ctx, id, services.AccountPatch{Email: req.Email, Secret: req.Password})
	if err != nil {
		return nil, s.fail(ctx, wire.MethodUpdateProfile, err)
	}
	return &wire.AccountResponse{Account: accountView(account)}, nil
}

func (s *GRPCServer) ListCards(ctx context.Context, _ *wire.Empty) (*wire.CardListResponse, error) {
	list, err := s.cards.ListCards(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodListCards, err)
	}

	out := &wire.CardListResponse{Cards: make([]wire.CardView, 0, len(list))}
	for i := range list {
		v, err := s.cardView(ctx, &list[i])
		if err != nil {
			return nil, s.fail(ctx, wire.MethodListCards, err)
		}
		out.Cards = append(out.Cards, v)
	}
	return out, nil
}

func (s *GRPCServer) GetCard(ctx context.Context, req *wire.CardIDRequest) (*wire.CardResponse, error) {
	card, err := s.cards.GetCard(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodGetCard, err)
	}
	return s.cardResponse(ctx, wire.MethodGetCard, card)
}

func (s *GRPCServer) CreateCard(ctx context.Context, req *wire.CardRequest) (*wire.CardResponse, error) {
	card, err := s.cards.CreateCard(ctx, models.Card{
		Name:             req.Name,
		HiddenImageRef:   req.HiddenImageRef,
		RevealedImageRef: req.RevealedImageRef,
		Type:             models.CardType(req.Type),
		Level:            req.Level,
		ElementClass:     models.Element(req.ElementClass),
	})
	if err != nil {
		return nil, s.fail(ctx, wire.MethodCreateCard, err)
	}

	s.logger.Info(ctx, "Card created", "card_id", card.ID)
	return s.cardResponse(ctx, wire.MethodCreateCard, card)
}

func (s *GRPCServer) UpdateCard(ctx context.Context, req *wire.UpdateCardRequest) (*wire.CardResponse, error) {
	patch := services.CardPatch{
		Name:             req.Name,
		HiddenImageRef:   req.HiddenImageRef,
		RevealedImageRef: req.RevealedImageRef,
		Level:            req.Level,
	}
	if req.Type != nil {
		t := models.CardType(*req.Type)
		patch.Type = &t
	}
	if req.ElementClass != nil {
		e := models.Element(*req.ElementClass)
		patch.ElementClass = &e
	}

	card, err := s.cards.UpdateCard(ctx, req.ID, patch)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodUpdateCard, err)
	}
	return s.cardResponse(ctx, wire.MethodUpdateCard, card)
}

func (s *GRPCServer) DeleteCard(ctx context.Context, req *wire.CardIDRequest) (*wire.Empty, error) {
	if err := s.cards.DeleteCard(ctx, req.ID); err != nil {
		return nil, s.fail(ctx, wire.MethodDeleteCard, err)
	}

	s.logger.Info(ctx, "Card deleted", "card_id", req.ID)
	return &wire.Empty{}, nil
}

func (s *GRPCServer) ImageUploadURL(ctx context.Context, _ *wire.Empty) (*wire.ImageUploadResponse, error) {
	key, url, err := s.images.UploadURL(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodImageUploadURL, err)
	}
	return &wire.ImageUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) ListAccounts(ctx context.Context, _ *wire.Empty) (*wire.AccountListResponse, error) {
	list, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, s.fail(ctx, wire.MethodListAccounts, err)
	}

	out := &wire.AccountListResponse{Accounts: make([]wire.AccountView, 0, len(list))}
	for i := range list {
		out.Accounts = append(out.Accounts, accountView(&list[i]))
	}
	return out, nil
}

func (s *GRPCServer) UpdateAccount(ctx context.Context, req *wire.UpdateAccountRequest) (*wire.AccountResponse, error) {
	account, err := s.accounts.UpdateAccount(ctx, req.ID, services.AccountPatch{
		Email:   req.Email,
		Secret:  req.Password,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		return nil, s.fail(ctx, wire.MethodUpdateAccount, err)
	}

	s.logger.Info(ctx, "Account updated", "account_id", account.ID)
	return &wire.AccountResponse{Account: accountView(account)}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *wire.AccountIDRequest) (*wire.Empty, error) {
	if err := s.accounts.DeleteAccount(ctx, req.ID); err != nil {
		return nil, s.fail(ctx, wire.MethodDeleteAccount, err)
	}

	s.logger.Info(ctx, "Account deleted", "account_id", req.ID)
	return &wire.Empty{}, nil
}

// --- helpers ---

// callerAccountID is the account behind the session. Admin-key sessions
// carry no account.
func callerAccountID(ctx context.Context) (int64, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, common.ErrorUnauthorized
	}
	if claims.AccountID == 0 {
		return 0, common.ErrorNotFound
	}
	return claims.AccountID, nil
}

func sessionResponse(res *services.LoginResult) *wire.SessionResponse {
	return &wire.SessionResponse{
		Token:     res.Token,
		ExpiresAt: res.Claims.ExpiresAt,
		AccountID: res.Claims.AccountID,
		Email:     res.Claims.Email,
		IsAdmin:   res.Claims.IsAdmin,
	}
}

func accountView(a *models.Account) wire.AccountView {
	return wire.AccountView{ID: a.ID, Email: a.Email, IsAdmin: a.IsAdmin, CreatedAt: a.CreatedAt}
}

func (s *GRPCServer) cardView(ctx context.Context, c *models.Card) (wire.CardView, error) {
	hidden, err := s.images.Resolve(ctx, c.HiddenImageRef)
	if err != nil {
		return wire.CardView{}, err
	}
	revealed, err := s.images.Resolve(ctx, c.RevealedImageRef)
	if err != nil {
		return wire.CardView{}, err
	}

	return wire.CardView{
		ID:               c.ID,
		Name:             c.Name,
		HiddenImageRef:   c.HiddenImageRef,
		RevealedImageRef: c.RevealedImageRef,
		HiddenImageURL:   hidden,
		RevealedImageURL: revealed,
		Type:             string(c.Type),
		Level:            c.Level,
		ElementClass:     string(c.ElementClass),
	}, nil
}

func (s *GRPCServer) cardResponse(ctx context.Context, op string, c *models.Card) (*wire.CardResponse, error) {
	v, err := s.cardView(ctx, c)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &wire.CardResponse{Card: v}, nil
}
