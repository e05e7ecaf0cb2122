package unlock

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

type conditionJSON struct {
	AllOf []supercluster.NodeID `json:"all_of"`
	OneOf []supercluster.NodeID `json:"one_of"`
}

// MarshalJSON renders c as {"all_of": [...], "one_of": [...]}. Empty sets
// are rendered as [] rather than null.
func (c UnlockingCondition) MarshalJSON() ([]byte, error) {
	out := conditionJSON{AllOf: c.AllOf, OneOf: c.OneOf}
	if out.AllOf == nil {
		out.AllOf = []supercluster.NodeID{}
	}
	if out.OneOf == nil {
		out.OneOf = []supercluster.NodeID{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON and normalises both
// sets to sorted order.
func (c *UnlockingCondition) UnmarshalJSON(data []byte) error {
	var in conditionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.AllOf == nil {
		in.AllOf = []supercluster.NodeID{}
	}
	if in.OneOf == nil {
		in.OneOf = []supercluster.NodeID{}
	}
	c.AllOf = supercluster.SortIDs(in.AllOf)
	c.OneOf = supercluster.SortIDs(in.OneOf)
	return nil
}

// WriteJSON writes cm as a JSON object keyed by canonical node ID, sorted,
// with two-space indentation. Roots are written as null.
func WriteJSON(w io.Writer, cm ConditionMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cm); err != nil {
		return fmt.Errorf("encode conditions: %w", err)
	}
	return nil
}

// MarshalIndent is WriteJSON into a byte slice.
func MarshalIndent(cm ConditionMap) ([]byte, error) {
	data, err := json.MarshalIndent(cm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode conditions: %w", err)
	}
	return data, nil
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (ConditionMap, error) {
	var cm ConditionMap
	if err := json.NewDecoder(r).Decode(&cm); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}
	if cm == nil {
		cm = ConditionMap{}
	}
	return cm, nil
}
