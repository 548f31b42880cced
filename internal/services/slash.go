package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// Slash reduces the validator multiplier. Claims are not rewritten, the
// multiplier is read when they are released.
func (s *Services) Slash(ctx context.Context, env types.Env, msg *types.SlashMsg) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "slash", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if env.Sender != s.providerCfg().SlasherAddress {
			return types.NewUnauthorizedError("only the slasher can slash validators")
		}
		validator, err := applySlash(ctx, store, msg.Validator, msg.Fraction)
		if err != nil {
			return err
		}
		log.Ctx(ctx).Warn().Str("validator", msg.Validator).Str("fraction", msg.Fraction.String()).
			Str("multiplier", validator.Multiplier.String()).Msg("validator slashed")
		res.AddAttribute("validator", msg.Validator)
		res.AddAttribute("multiplier", validator.Multiplier.String())
		return nil
	})
}
