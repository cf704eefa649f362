package services

import (
	"fmt"

	"rent-advisor-api/pkg/models"

	log "github.com/sirupsen/logrus"
)

var builderLog = log.WithField("component", "feature_builder")

// Short-term model columns set from scalar profile fields
const (
	ColSuperhost        = "host_is_superhost"
	ColListingsCount    = "host_listings_count"
	ColIdentityVerified = "host_identity_verified"
	ColBathrooms        = "bathrooms_text"
	ColBedrooms         = "bedrooms"

	roomColumnPrefix = "room_"
)

// Long-term model columns
const (
	ColRentalRooms = "Nombre de pièces principales"
	ColFurnished   = "Type de locationom_meublé"
	ColUnfurnished = "Type de locationom_non meublé"
)

// Cleaning-cost model columns
const (
	ColCleaningBedroom  = "Bedroom"
	ColCleaningBathroom = "Bathroom"
)

// LongTermColumns is the input schema of the long-term rent model, in training order.
var LongTermColumns = []string{
	ColRentalRooms,
	"Arrondissement_10e",
	"Arrondissement_11e",
	"Arrondissement_12e",
	"Arrondissement_13e",
	"Arrondissement_14e",
	"Arrondissement_15e",
	"Arrondissement_16e",
	"Arrondissement_17e",
	"Arrondissement_18e",
	"Arrondissement_19e",
	"Arrondissement_1er",
	"Arrondissement_20e",
	"Arrondissement_2e",
	"Arrondissement_3e",
	"Arrondissement_4e",
	"Arrondissement_5e",
	"Arrondissement_6e",
	"Arrondissement_7e",
	"Arrondissement_8e",
	"Arrondissement_9e",
	ColFurnished,
	ColUnfurnished,
}

// CleaningColumns is the input schema of the cleaning-cost model
var CleaningColumns = []string{ColCleaningBedroom, ColCleaningBathroom}

var (
	longTermSchema = mustSchema("long_term_rent", LongTermColumns)
	cleaningSchema = mustSchema("cleaning_cost", CleaningColumns)

	cleaningProjection = map[string]string{
		ColCleaningBedroom:  ColBedrooms,
		ColCleaningBathroom: ColBathrooms,
	}
)

// FeatureSnapshotter receives every built vector for offline debugging
type FeatureSnapshotter interface {
	Snapshot(kind string, v *FeatureVector)
}

// FeatureBuilder turns profiles into model input vectors
type FeatureBuilder struct {
	shortTerm *FeatureSchema
	catalog   *AmenityCatalog
	snapshots FeatureSnapshotter
}

// NewFeatureBuilder creates a builder over the short-term model's declared feature names.
// snapshots may be nil.
func NewFeatureBuilder(shortTermColumns []string, snapshots FeatureSnapshotter) (*FeatureBuilder, error) {
	schema, err := NewFeatureSchema("short_term_price", shortTermColumns)
	if err != nil {
		return nil, err
	}
	catalog, err := NewAmenityCatalog(shortTermColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to derive amenity catalog: %w", err)
	}
	return &FeatureBuilder{shortTerm: schema, catalog: catalog, snapshots: snapshots}, nil
}

// Catalog returns the amenity catalog derived from the short-term schema
func (b *FeatureBuilder) Catalog() *AmenityCatalog { return b.catalog }

// ShortTermSchema returns the short-term model schema
func (b *FeatureBuilder) ShortTermSchema() *FeatureSchema { return b.shortTerm }

// BuildShortTerm produces the short-term price model input for a profile
func (b *FeatureBuilder) BuildShortTerm(p models.UserProfile) *FeatureVector {
	v := b.shortTerm.NewVector()

	v.set(ColSuperhost, boolToFloat(p.Superhost))
	v.set(ColListingsCount, float64(p.ListingsCount))
	v.set(ColIdentityVerified, boolToFloat(p.IdentityVerified))
	v.set(ColBathrooms, float64(p.Bathrooms))
	v.set(ColBedrooms, float64(p.Bedrooms))

	setDistrict(v, p.DistrictOrDefault())

	roomType := p.RoomTypeOrDefault()
	for _, rt := range models.RoomTypes {
		v.set(roomColumnPrefix+string(rt), boolToFloat(rt == roomType))
	}

	for _, label := range p.Amenities {
		col, ok := b.catalog.Column(label)
		if !ok || !v.set(col, 1) {
			builderLog.WithField("amenity", label).Debug("dropping amenity unknown to the model")
		}
	}

	if b.snapshots != nil {
		b.snapshots.Snapshot("airbnb", v)
	}
	return v
}

// BuildLongTerm produces the long-term rent model input for a profile.
// The furnished pair is always populated, even when the host does not intend to rent.
func (b *FeatureBuilder) BuildLongTerm(p models.UserProfile) *FeatureVector {
	v := longTermSchema.NewVector()

	setDistrict(v, p.DistrictOrDefault())

	if p.RentalRooms != nil {
		v.set(ColRentalRooms, float64(*p.RentalRooms))
	}

	v.set(ColFurnished, boolToFloat(p.Furnished))
	v.set(ColUnfurnished, boolToFloat(!p.Furnished))

	if b.snapshots != nil {
		b.snapshots.Snapshot("renting", v)
	}
	return v
}

// cleaningInput projects bedrooms and bathrooms of a short-term vector onto the cleaning schema
func cleaningInput(shortTerm *FeatureVector) (*FeatureVector, error) {
	v, err := shortTerm.project(cleaningSchema, cleaningProjection)
	if err != nil {
		return nil, &models.SchemaMismatchError{
			Model:    cleaningSchema.Name(),
			Expected: cleaningSchema.Columns(),
			Got:      shortTerm.Columns(),
			Detail:   err.Error(),
		}
	}
	return v, nil
}

// setDistrict sets the one-hot column of district n. Unknown districts leave
// the vector without any location signal.
func setDistrict(v *FeatureVector, n int) {
	col := DistrictColumn(n)
	if col == "" || !v.set(col, 1) {
		builderLog.WithField("district", n).Debug("no district column for profile location")
	}
}

// withDistrict returns a clone of v located in district n only
func withDistrict(v *FeatureVector, n int) *FeatureVector {
	out := v.clone()
	for _, col := range DistrictColumns() {
		out.set(col, 0)
	}
	setDistrict(out, n)
	return out
}
