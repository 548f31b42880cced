package types

import (
	sdkmath "cosmossdk.io/math"
)

// Response is the output of a committed state transition. Nothing in it has
// been delivered yet; the caller hands it to the outbox after commit.
type Response struct {
	Packets    []OutgoingPacket `json:"packets,omitempty"`
	Messages   []LockupMsg      `json:"messages,omitempty"`
	Transfers  []BankSend       `json:"transfers,omitempty"`
	Attributes []Attribute      `json:"attributes,omitempty"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (r *Response) AddAttribute(key, value string) {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
}

// Attribute returns the last value recorded for key.
func (r *Response) Attribute(key string) (string, bool) {
	for i := len(r.Attributes) - 1; i >= 0; i-- {
		if r.Attributes[i].Key == key {
			return r.Attributes[i].Value, true
		}
	}
	return "", false
}

func (r *Response) IsEmpty() bool {
	return len(r.Packets) == 0 && len(r.Messages) == 0 && len(r.Transfers) == 0
}

// LockupMsg is an instruction to the external lockup contract.
type LockupMsg struct {
	Contract string           `json:"contract"`
	Msg      ClaimProviderMsg `json:"msg"`
}

type ClaimProviderMsg struct {
	SlashClaim *SlashClaimMsg `json:"slash_claim,omitempty"`
}

// SlashClaimMsg releases a matured claim. Amount is the original claim
// amount; Slashed is the part lost to slashing.
type SlashClaimMsg struct {
	Owner     string      `json:"owner"`
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
	Slashed   sdkmath.Int `json:"slashed"`
}

// Final is the amount the owner gets back.
func (m SlashClaimMsg) Final() sdkmath.Int {
	return m.Amount.Sub(m.Slashed)
}

type BankSend struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}
