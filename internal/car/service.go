package car

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CarTrax/CarTrax/internal/carspec"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidPayload marks a malformed request body (non-object JSON, wrong
// nested shapes). The HTTP layer maps it to a 400; anything else that is not
// a not-found is a server failure.
var ErrInvalidPayload = errors.New("invalid payload")

// Service orchestrates the car + spec pair: blank spec on create, lazy spec
// on first patch, combined reads, combined delete. Not-found is a nil
// result, not an error.
//
// The two-table writes are not wrapped in a DB transaction; each statement
// commits on its own, so a failure between the spec write and the car write
// can leave the pair inconsistent. That limitation is accepted, not masked.
type Service struct {
	cars     *Repo
	specs    *carspec.Repo
	expander *carspec.Expander
}

func NewService(cars *Repo, specs *carspec.Repo, expander *carspec.Expander) *Service {
	return &Service{cars: cars, specs: specs, expander: expander}
}

// ListOptions controls list hydration.
type ListOptions struct {
	IncludeSpec bool
	Expand      bool // implies IncludeSpec
}

// FilterOptions are exact-match list filters; zero values mean "any".
type FilterOptions struct {
	Year  *int
	Make  string
	Model string
}

// carPatchColumns enumerates the updatable car fields; the nested "spec" key
// is handled separately and never written to the cars table.
var carPatchColumns = map[string]string{
	"year":    "year",
	"make":    "make",
	"model":   "model",
	"color":   "color",
	"vin":     "vin",
	"mileage": "mileage",
	"trim":    "trim",
	"notes":   "notes",
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]CarWithSpec, error) {
	if s == nil || s.cars == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	cars, err := s.cars.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cars, opts)
}

// Filter is List with exact-match filters; results always carry their spec.
func (s *Service) Filter(ctx context.Context, f FilterOptions, expand bool) ([]CarWithSpec, error) {
	if s == nil || s.cars == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	cars, err := s.cars.Filter(ctx, f.Year, strings.TrimSpace(f.Make), strings.TrimSpace(f.Model))
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cars, ListOptions{IncludeSpec: true, Expand: expand})
}

func (s *Service) hydrate(ctx context.Context, cars []Car, opts ListOptions) ([]CarWithSpec, error) {
	out := make([]CarWithSpec, 0, len(cars))
	for i := range cars {
		if !opts.IncludeSpec && !opts.Expand {
			out = append(out, CarWithSpec{Car: cars[i]})
			continue
		}
		cw, err := s.combined(ctx, &cars[i], opts.Expand)
		if err != nil {
			return nil, err
		}
		out = append(out, *cw)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string, expand bool) (*CarWithSpec, error) {
	return s.getWith(ctx, expand, func(ctx context.Context) (*Car, error) {
		return s.cars.GetByID(ctx, strings.TrimSpace(id))
	})
}

func (s *Service) GetByVIN(ctx context.Context, vin string, expand bool) (*CarWithSpec, error) {
	return s.getWith(ctx, expand, func(ctx context.Context) (*Car, error) {
		return s.cars.GetByVIN(ctx, strings.TrimSpace(vin))
	})
}

func (s *Service) GetByLicensePlate(ctx context.Context, plate string, expand bool) (*CarWithSpec, error) {
	return s.getWith(ctx, expand, func(ctx context.Context) (*Car, error) {
		return s.cars.GetByLicensePlate(ctx, strings.TrimSpace(plate))
	})
}

func (s *Service) getWith(ctx context.Context, expand bool, fetch func(context.Context) (*Car, error)) (*CarWithSpec, error) {
	if s == nil || s.cars == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	c, err := fetch(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.combined(ctx, c, expand)
}

// CreateWithBlankSpec creates a blank spec first, then the car pointing at
// it, and returns the hydrated pair.
func (s *Service) CreateWithBlankSpec(ctx context.Context, body interface{}) (*CarWithSpec, error) {
	if s == nil || s.cars == nil || s.specs == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	m, ok := body.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidPayload
	}

	sp, err := s.specs.CreateBlank(ctx)
	if err != nil {
		return nil, err
	}

	c := &Car{
		ID:      uuid.NewString(),
		Year:    intField(m, "year"),
		Make:    stringField(m, "make"),
		Model:   stringField(m, "model"),
		Color:   stringField(m, "color"),
		VIN:     optStringField(m, "vin"),
		Mileage: optStringField(m, "mileage"),
		Trim:    optStringField(m, "trim"),
		Notes:   optStringField(m, "notes"),
		SpecID:  &sp.ID,
	}
	if err := s.cars.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CarWithSpec{Car: *c, Spec: sp}, nil
}

// UpdateCarAndSpec patches car fields and/or the nested spec in one logical
// operation. Spec-side changes commit before car-side changes. A car without
// a spec gets a blank one created and linked before the spec patch applies.
func (s *Service) UpdateCarAndSpec(ctx context.Context, id string, body interface{}, allowNull bool) (*CarWithSpec, error) {
	if s == nil || s.cars == nil || s.specs == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	m, ok := body.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidPayload
	}

	existing, err := s.cars.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if raw, present := m["spec"]; present && raw != nil {
		specPatch, ok := raw.(map[string]interface{})
		if !ok {
			return nil, ErrInvalidPayload
		}

		specID := existing.SpecID
		if specID == nil {
			created, err := s.specs.CreateBlank(ctx)
			if err != nil {
				return nil, err
			}
			specID = &created.ID
			if _, err := s.cars.Update(ctx, id, map[string]interface{}{"spec_id": created.ID}); err != nil {
				return nil, err
			}
		}

		if _, err := s.specs.Update(ctx, *specID, carspec.Patch(specPatch), allowNull); err != nil {
			return nil, err
		}
	}

	carCols := make(map[string]interface{})
	for name, col := range carPatchColumns {
		if v, present := m[name]; present {
			carCols[col] = v
		}
	}
	if len(carCols) > 0 {
		if _, err := s.cars.Update(ctx, id, carCols); err != nil {
			return nil, err
		}
	}

	// reload fresh: the combined view reflects both writes
	updated, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.combined(ctx, updated, false)
}

// DeleteCarAndSpec removes the car and its linked spec (the spec first; the
// store has no cascade). Part rows are never touched.
func (s *Service) DeleteCarAndSpec(ctx context.Context, id string) (bool, error) {
	if s == nil || s.cars == nil || s.specs == nil {
		return false, fmt.Errorf("service not initialized")
	}
	c, err := s.cars.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if c.SpecID != nil {
		if _, err := s.specs.Delete(ctx, *c.SpecID); err != nil {
			return false, err
		}
	}
	return s.cars.Delete(ctx, id)
}

func (s *Service) combined(ctx context.Context, c *Car, expand bool) (*CarWithSpec, error) {
	cw := &CarWithSpec{Car: *c}
	if c.SpecID == nil {
		return cw, nil
	}
	sp, err := s.specs.GetByID(ctx, *c.SpecID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// dangling spec link; surface the car with a nil spec
		return cw, nil
	}
	if err != nil {
		return nil, err
	}
	if !expand {
		cw.Spec = sp
		return cw, nil
	}
	expanded, err := s.expander.Expand(ctx, sp)
	if err != nil {
		return nil, err
	}
	cw.Spec = expanded
	return cw, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func optStringField(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64: // encoding/json decodes numbers as float64
		return int(v)
	case int:
		return v
	}
	return 0
}
