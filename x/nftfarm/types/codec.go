package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
	"github.com/pkg/errors"
)

var (
	// PoolValue is the store codec of Pool.
	PoolValue collcodec.ValueCodec[Pool] = jsonValue[Pool]{name: "nftfarm.Pool"}
	// RewardEscrowValue is the store codec of RewardEscrow.
	RewardEscrowValue collcodec.ValueCodec[RewardEscrow] = jsonValue[RewardEscrow]{name: "nftfarm.RewardEscrow"}
	// PositionValue is the store codec of Position.
	PositionValue collcodec.ValueCodec[Position] = jsonValue[Position]{name: "nftfarm.Position"}
	// StakedItemValue is the store codec of StakedItem.
	StakedItemValue collcodec.ValueCodec[StakedItem] = jsonValue[StakedItem]{name: "nftfarm.StakedItem"}
	// ParamsValue is the store codec of Params.
	ParamsValue collcodec.ValueCodec[Params] = jsonValue[Params]{name: "nftfarm.Params"}
)

// jsonValue stores values as canonical JSON. encoding/json emits struct fields in declaration order
// and math.Int as decimal strings, so the encoding is deterministic.
type jsonValue[T any] struct {
	name string
}

func (c jsonValue[T]) Encode(value T) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", c.name)
	}
	return bz, nil
}

func (c jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, errors.Wrapf(err, "failed to decode %s", c.name)
	}
	return value, nil
}

func (c jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (c jsonValue[T]) Stringify(value T) string {
	bz, err := c.Encode(value)
	if err != nil {
		return fmt.Sprintf("%s(%v)", c.name, err)
	}
	return string(bz)
}

func (c jsonValue[T]) ValueType() string {
	return c.name
}
