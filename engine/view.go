package engine

import "github.com/spektr-org/tally/scale"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Record (CSV, XLSX, ad-hoc)
//   DomainView[T]  — reads typed structs via accessor functions
//   SubView        — filtered subset (indices into parent)
// ============================================================================

// RecordView provides indexed access to a dataset. Measure reports false
// when the record has no value for key.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) (float64, bool)
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from records. Keys are listed in first
// seen order; pass keys explicitly to fix the order (CSV header order).
func NewSliceView(records []Record, keys ...string) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys(keys)
	return v
}

func (v *SliceView) cacheKeys(order []string) {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	isDim := make(map[string]bool)
	isMes := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			isDim[k] = true
		}
		for k := range r.Measures {
			isMes[k] = true
		}
	}

	add := func(k string) {
		// a column holding both text and numbers is a dimension
		if isDim[k] && !dimSeen[k] {
			dimSeen[k] = true
			v.dimKeys = append(v.dimKeys, k)
			return
		}
		if isMes[k] && !isDim[k] && !mesSeen[k] {
			mesSeen[k] = true
			v.mesKeys = append(v.mesKeys, k)
		}
	}
	for _, k := range order {
		add(k)
	}
	for _, r := range v.records {
		for k := range r.Dimensions {
			add(k)
		}
		for k := range r.Measures {
			add(k)
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	val, ok := v.records[i].Measures[key]
	return val, ok
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Sale]().
//	    Dimension("region", func(s Sale) string { return s.Region }).
//	    Measure("revenue", func(s Sale) (float64, bool) { return s.Revenue, s.Booked })
//
//	table, err := engine.BuildTable("Revenue", adapter.Bind(sales), "region", []string{"revenue"})
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor. The accessor reports false for a
// missing value.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView over data without copying it.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{adapter: a, data: data}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	adapter *DomainAdapter[T]
	data    []T
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	fn, ok := v.adapter.dims[key]
	if !ok || i < 0 || i >= len(v.data) {
		return ""
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	fn, ok := v.adapter.meas[key]
	if !ok || i < 0 || i >= len(v.data) {
		return 0, false
	}
	return fn(v.data[i])
}

func (v *DomainView[T]) DimensionKeys() []string { return v.adapter.dimOrder }
func (v *DomainView[T]) MeasureKeys() []string   { return v.adapter.mesOrder }

// Samples collects measure key across view in row order.
func Samples(view RecordView, key string) []scale.Sample {
	out := make([]scale.Sample, view.Len())
	for i := range out {
		if v, ok := view.Measure(i, key); ok {
			out[i] = scale.Value(v)
		} else {
			out[i] = scale.Null()
		}
	}
	return out
}
