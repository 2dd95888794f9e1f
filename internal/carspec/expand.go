package carspec

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CarTrax/CarTrax/internal/common/middleware"
	"github.com/CarTrax/CarTrax/internal/parts"
	"gorm.io/gorm"
)

// Expander resolves every reference field of a spec to its part-catalog row,
// producing the denormalized view the frontend renders. The fan-out multiplies
// every catalog read per request, so the lookups run behind a circuit breaker
// and fail fast when the store is struggling.
type Expander struct {
	parts   *parts.Repo
	breaker *middleware.CircuitBreaker
}

func NewExpander(partsRepo *parts.Repo) *Expander {
	return &Expander{
		parts:   partsRepo,
		breaker: middleware.NewCircuitBreaker("part-catalog", 5, 30*time.Second),
	}
}

// Expanded is the denormalized spec: licensePlateNumber verbatim, plus one
// key per reference field (Id suffix stripped) holding *parts.Ref or nil.
type Expanded map[string]interface{}

// Expand fans out one catalog lookup per non-null reference field and joins
// the results. The lookups are independent reads with no ordering between
// them. A reference pointing at a missing row expands to nil (dangling
// references are data, not failures); a store error fails the whole expand.
func (e *Expander) Expand(ctx context.Context, sp *CarSpec) (Expanded, error) {
	if sp == nil {
		return nil, nil
	}

	out := make(Expanded, len(RefFields)+1)
	if sp.LicensePlateNumber != nil {
		out["licensePlateNumber"] = *sp.LicensePlateNumber
	} else {
		out["licensePlateNumber"] = nil
	}

	type lookup struct {
		ref *parts.Ref
		err error
	}
	results := make([]lookup, len(RefFields))

	var wg sync.WaitGroup
	for i, f := range RefFields {
		id := f.Get(sp)
		if id == nil {
			continue
		}
		wg.Add(1)
		go func(i int, f RefField, id uint64) {
			defer wg.Done()
			var row *parts.Part
			err := e.breaker.Call(ctx, func() error {
				got, lerr := e.parts.GetByID(ctx, f.Table, id)
				if errors.Is(lerr, gorm.ErrRecordNotFound) {
					// dangling reference, not a store failure
					return nil
				}
				row = got
				return lerr
			})
			if err != nil {
				results[i].err = err
				return
			}
			if row == nil {
				return
			}
			results[i].ref = &parts.Ref{ID: row.ID, Data: row.Data}
		}(i, f, *id)
	}
	wg.Wait()

	for i, f := range RefFields {
		if results[i].err != nil {
			return nil, results[i].err
		}
		if results[i].ref != nil {
			out[f.ExpandedKey()] = results[i].ref
		} else {
			out[f.ExpandedKey()] = nil
		}
	}
	return out, nil
}
