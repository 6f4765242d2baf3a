package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var ErrInvalidVenueList = errors.New("venues must be a string or an array of strings")

// VenueList is a list of venue names that also accepts a single string on
// input, as older clients and documents stored one venue per booking.
type VenueList []string

func (v *VenueList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*v = VenueList{}
			return nil
		}
		*v = VenueList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return ErrInvalidVenueList
	}
	*v = VenueList(many)
	return nil
}

func (v VenueList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(v))
}

func (v *VenueList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = VenueList{raw.StringValue()}
		return nil
	case bsontype.Array:
		values, err := raw.Array().Values()
		if err != nil {
			return fmt.Errorf("venue list: %w", err)
		}
		out := make(VenueList, 0, len(values))
		for _, val := range values {
			s, ok := val.StringValueOK()
			if !ok {
				return ErrInvalidVenueList
			}
			out = append(out, s)
		}
		*v = out
		return nil
	case bsontype.Null, bsontype.Undefined:
		*v = nil
		return nil
	default:
		return fmt.Errorf("%w: got %s", ErrInvalidVenueList, t)
	}
}
