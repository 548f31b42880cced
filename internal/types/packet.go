package types

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
)

// ProviderPacket is the data of a packet sent from the provider to the
// consumer. Exactly one variant is set.
type ProviderPacket struct {
	Stake   *StakePacket   `json:"stake,omitempty"`
	Unstake *UnstakePacket `json:"unstake,omitempty"`
}

type StakePacket struct {
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
	Key       string      `json:"key"`
}

type UnstakePacket struct {
	Validator string      `json:"validator"`
	Amount    sdkmath.Int `json:"amount"`
	Key       string      `json:"key"`
}

// PacketTimeout is the deadline after which the transport gives up on an
// unacknowledged packet.
type PacketTimeout struct {
	Timestamp    time.Time `json:"timestamp"`
	PortID       string    `json:"port_id"`
	ConnectionID string    `json:"connection_id"`
}

func (t PacketTimeout) IsExpired(now time.Time) bool {
	return !now.Before(t.Timestamp)
}

type OutgoingPacket struct {
	Sequence  uint64         `json:"sequence"`
	ChannelID string         `json:"channel_id"`
	Data      ProviderPacket `json:"data"`
	Timeout   PacketTimeout  `json:"timeout"`
}

// ConsumerPacket is the data of a packet received from the consumer.
// Exactly one variant is set.
type ConsumerPacket struct {
	ReceiveRewards   *ReceiveRewardsPacket   `json:"receive_rewards,omitempty"`
	UpdateValidators *UpdateValidatorsPacket `json:"update_validators,omitempty"`
}

type ReceiveRewardsPacket struct {
	RewardsByValidator map[string]Coin `json:"rewards_by_validator"`
}

type UpdateValidatorsPacket struct {
	Added []string `json:"added"`
}

func (p ConsumerPacket) Validate() error {
	set := 0
	if p.ReceiveRewards != nil {
		set++
		for validator, coin := range p.ReceiveRewards.RewardsByValidator {
			if validator == "" {
				return fmt.Errorf("empty validator in rewards")
			}
			if err := coin.Validate(); err != nil {
				return err
			}
		}
	}
	if p.UpdateValidators != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("consumer packet must carry exactly one variant, got %d", set)
	}
	return nil
}
