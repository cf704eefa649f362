package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoomType is the listing category used by the short-term pricing model.
type RoomType string

const (
	RoomEntireHome RoomType = "Entire home/apt"
	RoomHotel      RoomType = "Hotel room"
	RoomPrivate    RoomType = "Private room"
	RoomShared     RoomType = "Shared room"
)

// RoomTypes is the fixed enumeration, in the order the model was one-hot encoded.
var RoomTypes = []RoomType{RoomEntireHome, RoomHotel, RoomPrivate, RoomShared}

// DefaultDistrict is used when a profile carries no arrondissement.
const DefaultDistrict = 1

// Profile keys as they are stored in profiles.json.
const (
	KeyDistrict         = "arrondissement"
	KeyBedrooms         = "bedrooms"
	KeyBathrooms        = "bathrooms"
	KeyTotalRooms       = "num_rooms"
	KeySuperhost        = "host_is_superhost"
	KeyListingsCount    = "host_listings_count"
	KeyIdentityVerified = "host_identity_verified"
	KeyRoomType         = "room_type"
	KeyAmenities        = "amenities"
	KeyRentalRooms      = "Number of rooms renting"
	KeyFurnished        = "furnished"
	KeyWillRent         = "rent"
)

// UserProfile describes one property and its host.
//
// Construct profiles with DefaultProfile or ParseProfile. A zero value keeps
// bedrooms and bathrooms at 0; only the district and room type fall back to
// their defaults through DistrictOrDefault and RoomTypeOrDefault.
type UserProfile struct {
	District         int      `json:"arrondissement"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	TotalRooms       int      `json:"num_rooms"`
	Superhost        bool     `json:"host_is_superhost"`
	ListingsCount    int      `json:"host_listings_count"`
	IdentityVerified bool     `json:"host_identity_verified"`
	RoomType         RoomType `json:"room_type"`
	Amenities        []string `json:"amenities"`

	// Long-term rental attributes.
	RentalRooms *int `json:"Number of rooms renting,omitempty"`
	Furnished   bool `json:"furnished"`
	WillRent    bool `json:"rent"`
}

// DefaultProfile returns the profile every missing field falls back to.
func DefaultProfile() UserProfile {
	return UserProfile{
		District:   DefaultDistrict,
		Bedrooms:   1,
		Bathrooms:  1,
		TotalRooms: 1,
		RoomType:   RoomEntireHome,
		Amenities:  []string{},
	}
}

// DistrictOrDefault treats a zero district as absent.
func (p UserProfile) DistrictOrDefault() int {
	if p.District == 0 {
		return DefaultDistrict
	}
	return p.District
}

// RoomTypeOrDefault treats an empty room type as absent.
func (p UserProfile) RoomTypeOrDefault() RoomType {
	if p.RoomType == "" {
		return RoomEntireHome
	}
	return p.RoomType
}

// Clone returns a deep copy so scenario edits never leak into the caller's profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Amenities = append([]string(nil), p.Amenities...)
	if p.RentalRooms != nil {
		n := *p.RentalRooms
		out.RentalRooms = &n
	}
	return out
}

// UnmarshalJSON accepts the loosely typed documents written by the profile editor
// (numbers as strings, booleans as 0/1) and applies the defaulting rules.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseProfile(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseProfile converts a raw key/value profile into a UserProfile.
// Absent or null fields take their defaults; fields that cannot be coerced
// return a *ValidationError naming the offending key.
func ParseProfile(raw map[string]any) (UserProfile, error) {
	p := DefaultProfile()

	ints := []struct {
		key string
		dst *int
	}{
		{KeyDistrict, &p.District},
		{KeyBedrooms, &p.Bedrooms},
		{KeyBathrooms, &p.Bathrooms},
		{KeyTotalRooms, &p.TotalRooms},
		{KeyListingsCount, &p.ListingsCount},
	}
	for _, f := range ints {
		v, ok, err := coerceInt(f.key, raw[f.key])
		if err != nil {
			return UserProfile{}, err
		}
		if ok {
			*f.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeySuperhost, &p.Superhost},
		{KeyIdentityVerified, &p.IdentityVerified},
		{KeyFurnished, &p.Furnished},
		{KeyWillRent, &p.WillRent},
	}
	for _, f := range bools {
		v, ok, err := coerceBool(f.key, raw[f.key])
		if err != nil {
			return UserProfile{}, err
		}
		if ok {
			*f.dst = v
		}
	}

	rooms, ok, err := coerceInt(KeyRentalRooms, raw[KeyRentalRooms])
	if err != nil {
		return UserProfile{}, err
	}
	if ok {
		p.RentalRooms = &rooms
	}

	if v, present := raw[KeyRoomType]; present && v != nil {
		s, isString := v.(string)
		if !isString {
			return UserProfile{}, &ValidationError{Field: KeyRoomType, Value: v, Reason: "must be a string"}
		}
		if strings.TrimSpace(s) != "" {
			rt, err := ParseRoomType(s)
			if err != nil {
				return UserProfile{}, err
			}
			p.RoomType = rt
		}
	}

	amenities, err := coerceStringList(KeyAmenities, raw[KeyAmenities])
	if err != nil {
		return UserProfile{}, err
	}
	p.Amenities = amenities

	return p, nil
}

// ParseRoomType matches a label against the enumeration, ignoring case.
func ParseRoomType(s string) (RoomType, error) {
	s = strings.TrimSpace(s)
	for _, rt := range RoomTypes {
		if strings.EqualFold(string(rt), s) {
			return rt, nil
		}
	}
	return "", &ValidationError{Field: KeyRoomType, Value: s, Reason: "unknown room type"}
}

func coerceInt(field string, v any) (int, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false, &ValidationError{Field: field, Value: v, Reason: "not a finite number"}
		}
		return int(math.Trunc(n)), true, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false, &ValidationError{Field: field, Value: v, Reason: "not an integer"}
		}
		return int(math.Trunc(f)), true, nil
	case bool:
		if n {
			return 1, true, nil
		}
		return 0, true, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false, &ValidationError{Field: field, Value: v, Reason: "not an integer"}
		}
		return i, true, nil
	default:
		return 0, false, &ValidationError{Field: field, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

func coerceBool(field string, v any) (bool, bool, error) {
	switch b := v.(type) {
	case nil:
		return false, false, nil
	case bool:
		return b, true, nil
	case float64:
		return b != 0, true, nil
	case int:
		return b != 0, true, nil
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, false, &ValidationError{Field: field, Value: v, Reason: "not a boolean"}
		}
		return f != 0, true, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, true, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false, &ValidationError{Field: field, Value: v, Reason: "not a boolean"}
		}
		return parsed, true, nil
	default:
		return false, false, &ValidationError{Field: field, Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

func coerceStringList(field string, v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Field: field, Value: item, Reason: "amenity labels must be strings"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: field, Value: v, Reason: "must be a list of strings"}
	}
}
