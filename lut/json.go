package lut

import (
	"encoding/json"
	"fmt"

	"github.com/shawn-mcadam/func/poly"
	"github.com/shawn-mcadam/func/transfer"
)

// jsonBlock is a single subinterval's coefficients, rising degree
// order, trimmed to its logical length.
type jsonBlock[T poly.Float] struct {
	Coefs []T `json:"coefs"`
}

// jsonTable mirrors MetaTable::to_json/from_json's field set from
// include/table_types/MetaTable.hpp, extended with hashMode so a
// nonuniform table's Full/Pseudo hash scheme survives a round trip
// (the original only ever serializes the Full scheme).
type jsonTable[T poly.Float] struct {
	Name            string                 `json:"name"`
	MinArg          T                      `json:"minArg"`
	MaxArg          T                      `json:"maxArg"`
	TableMaxArg     T                      `json:"tableMaxArg"`
	StepSize        T                      `json:"stepSize"`
	NumIntervals    int                    `json:"numIntervals"`
	NumTableEntries int                    `json:"numTableEntries"`
	Order           int                    `json:"order"`
	PadeN           int                    `json:"padeN,omitempty"`
	DataSize        int                    `json:"dataSize"`
	GridType        string                 `json:"gridType"`
	HashMode        string                 `json:"hashMode,omitempty"`
	TransferCoefs   *[transfer.NumCoefs]T  `json:"transfer_function_coefs,omitempty"`
	Table           []jsonBlock[T]         `json:"table"`
	PadeFallback    []bool                 `json:"padeFallback,omitempty"`
}

// MarshalJSON serializes t using the field set described in spec.md §6.
func (t *Table[T]) MarshalJSON() ([]byte, error) {
	jt := jsonTable[T]{
		Name:            t.name,
		MinArg:          t.minArg,
		MaxArg:          t.maxArg,
		TableMaxArg:     t.tableMaxArg,
		StepSize:        t.stepSize,
		NumIntervals:    t.numIntervals,
		NumTableEntries: t.numTableEntries,
		Order:           t.order,
		PadeN:           t.padeN,
		DataSize:        t.dataSize,
		GridType:        t.grid.String(),
		Table:           make([]jsonBlock[T], len(t.Blocks)),
	}
	for i, b := range t.Blocks {
		jt.Table[i] = jsonBlock[T]{Coefs: append([]T(nil), b.C[:b.N]...)}
	}
	if t.grid == Nonuniform {
		coefs := t.transfer.Coefs()
		jt.TransferCoefs = &coefs
		jt.HashMode = t.hashMode.String()
	}
	if t.padeN > 0 {
		jt.PadeFallback = t.padeFallback
	}
	return json.Marshal(jt)
}

// UnmarshalJSON reconstructs t from the field set MarshalJSON produces,
// rebuilding the transfer function (and its Newton-derived forward map)
// from the persisted coefficients when the table is nonuniform.
func (t *Table[T]) UnmarshalJSON(data []byte) error {
	var jt jsonTable[T]
	if err := json.Unmarshal(data, &jt); err != nil {
		return err
	}

	*t = Table[T]{
		name:            jt.Name,
		minArg:          jt.MinArg,
		maxArg:          jt.MaxArg,
		tableMaxArg:     jt.TableMaxArg,
		stepSize:        jt.StepSize,
		numIntervals:    jt.NumIntervals,
		numTableEntries: jt.NumTableEntries,
		order:           jt.Order,
		padeN:           jt.PadeN,
		dataSize:        jt.DataSize,
	}

	switch jt.GridType {
	case "UNIFORM":
		t.grid = Uniform
	case "NONUNIFORM":
		t.grid = Nonuniform
	default:
		return fmt.Errorf("%w: unrecognized gridType %q", ErrInvalidArgument, jt.GridType)
	}

	if t.grid == Nonuniform {
		if jt.TransferCoefs == nil {
			return fmt.Errorf("%w: nonuniform table missing transfer_function_coefs", ErrInvalidArgument)
		}
		t.transfer = transfer.FromCoefs(*jt.TransferCoefs, t.minArg, t.tableMaxArg, t.stepSize)
		switch jt.HashMode {
		case "", "FULL":
			t.hashMode = Full
		case "PSEUDO":
			t.hashMode = Pseudo
		default:
			return fmt.Errorf("%w: unrecognized hashMode %q", ErrInvalidArgument, jt.HashMode)
		}
	}

	t.Blocks = make([]poly.Block[T], len(jt.Table))
	for i, b := range jt.Table {
		t.Blocks[i] = poly.NewBlock(b.Coefs...)
	}
	if t.padeN > 0 {
		t.padeFallback = jt.PadeFallback
	}
	return nil
}

// LoadTable deserializes data into a Table and checks that its
// persisted name field matches expectedName, per spec.md §6's
// serialization format and §7's ArgumentError for a name mismatch.
// Callers that know which family they expect to load (as opposed to
// json.Unmarshal'ing directly into a Table of unknown family) should
// go through this rather than UnmarshalJSON.
func LoadTable[T poly.Float](expectedName string, data []byte) (*Table[T], error) {
	var t Table[T]
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.name != expectedName {
		return nil, fmt.Errorf("%w: serialized table name %q does not match expected family %q", ErrInvalidArgument, t.name, expectedName)
	}
	return &t, nil
}
