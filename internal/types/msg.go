package types

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
)

// Env carries the authenticated caller and the block time of a state
// transition.
type Env struct {
	Sender    string    `json:"sender"`
	BlockTime time.Time `json:"block_time"`
}

// ExecuteMsg is the inbound intent of a state transition. Exactly one
// variant is set; dispatch happens on the concrete variant.
type ExecuteMsg struct {
	ReceiveClaim *ReceiveClaimMsg `json:"receive_claim,omitempty"`
	Unstake      *UnstakeMsg      `json:"unstake,omitempty"`
	Unbond       *UnbondMsg       `json:"unbond,omitempty"`
	Slash        *SlashMsg        `json:"slash,omitempty"`
	ClaimRewards *ClaimRewardsMsg `json:"claim_rewards,omitempty"`
}

type ReceiveClaimMsg struct {
	Owner     string      `json:"owner"`
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
}

type UnstakeMsg struct {
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
}

type UnbondMsg struct{}

type SlashMsg struct {
	Validator string            `json:"validator"`
	Fraction  sdkmath.LegacyDec `json:"fraction"`
}

type ClaimRewardsMsg struct {
	Validator string `json:"validator"`
}

// Variant returns the single variant carried by the message.
func (m ExecuteMsg) Variant() (any, error) {
	var (
		variant any
		set     int
	)
	if m.ReceiveClaim != nil {
		variant, set = m.ReceiveClaim, set+1
	}
	if m.Unstake != nil {
		variant, set = m.Unstake, set+1
	}
	if m.Unbond != nil {
		variant, set = m.Unbond, set+1
	}
	if m.Slash != nil {
		variant, set = m.Slash, set+1
	}
	if m.ClaimRewards != nil {
		variant, set = m.ClaimRewards, set+1
	}
	if set != 1 {
		return nil, fmt.Errorf("execute message must carry exactly one variant, got %d", set)
	}
	return variant, nil
}

// Name is the snake_case name of the variant, used for logs and metrics.
func (m ExecuteMsg) Name() string {
	switch {
	case m.ReceiveClaim != nil:
		return "receive_claim"
	case m.Unstake != nil:
		return "unstake"
	case m.Unbond != nil:
		return "unbond"
	case m.Slash != nil:
		return "slash"
	case m.ClaimRewards != nil:
		return "claim_rewards"
	default:
		return "unknown"
	}
}
