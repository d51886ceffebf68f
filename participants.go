package raffle

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// SourceFormat is the encoding of a participants file
type SourceFormat string

const (
	FormatJSON SourceFormat = "json"
	FormatYAML SourceFormat = "yaml"
)

// participantsSchema describes the document shape only. Individual weights are
// checked by the pool builder, where a bad weight is a warning, not a failure.
const participantsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"minProperties": 1
}`

var participantsValidator = jsonschema.MustCompileString("participants.schema.json", participantsSchema)

// ParticipantWeight is one participant as read from the source, before validation
type ParticipantWeight struct {
	Name        string // participant identifier
	Raw         string // weight as written in the source
	Weight      int64  // parsed weight, meaningful only when Integer is true
	Integer     bool   // Raw is an integer literal that fits in int64
	Occurrences int    // times Name appeared in the source
}

// ParticipantWeights is the participant to weight mapping in source order.
// A repeated name keeps its first position and takes the last weight.
type ParticipantWeights struct {
	entries []ParticipantWeight
	index   map[string]int
}

// NewParticipantWeights creates an empty mapping
func NewParticipantWeights() *ParticipantWeights {
	return &ParticipantWeights{index: make(map[string]int)}
}

// Set records an integer weight for name
func (p *ParticipantWeights) Set(name string, weight int64) *ParticipantWeights {
	p.add(ParticipantWeight{
		Name:    name,
		Raw:     strconv.FormatInt(weight, 10),
		Weight:  weight,
		Integer: true,
	})
	return p
}

// SetRaw records a weight given as a JSON literal, e.g. `2`, `2.5` or `"3"`.
// Only plain integer literals count as integer weights.
func (p *ParticipantWeights) SetRaw(name, raw string) *ParticipantWeights {
	raw = strings.TrimSpace(raw)
	w, err := strconv.ParseInt(raw, 10, 64)
	p.add(ParticipantWeight{
		Name:    name,
		Raw:     raw,
		Weight:  w,
		Integer: err == nil,
	})
	return p
}

func (p *ParticipantWeights) add(e ParticipantWeight) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[e.Name]; ok {
		e.Occurrences = p.entries[i].Occurrences + 1
		p.entries[i] = e
		return
	}
	e.Occurrences = 1
	p.index[e.Name] = len(p.entries)
	p.entries = append(p.entries, e)
}

// Len returns the number of distinct names
func (p *ParticipantWeights) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the entries in source order
func (p *ParticipantWeights) Entries() []ParticipantWeight {
	if p == nil {
		return nil
	}
	out := make([]ParticipantWeight, len(p.entries))
	copy(out, p.entries)
	return out
}

// DetectFormat picks the format from the file extension, defaulting to JSON
func DetectFormat(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadParticipants reads and parses a participants file
func LoadParticipants(path string) (*ParticipantWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSourceNotFound.New().WithDetails("%s", path)
		}
		return nil, ErrSourceUnreadable.New().WithDetails("%s", path).WithCause(err)
	}

	weights, err := ParseParticipants(data, DetectFormat(path))
	if err != nil {
		var raffleErr *RaffleError
		if errors.As(err, &raffleErr) && raffleErr.Details == "" {
			raffleErr.WithDetails("%s", path)
		}
		return nil, err
	}
	return weights, nil
}

// ParseParticipants parses a participants document
func ParseParticipants(data []byte, format SourceFormat) (*ParticipantWeights, error) {
	switch format {
	case FormatJSON:
		return parseJSONParticipants(data)
	case FormatYAML:
		return parseYAMLParticipants(data)
	default:
		return nil, ErrUnsupportedFormat.New().WithDetails("%q", format)
	}
}

func parseJSONParticipants(data []byte) (*ParticipantWeights, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrSourceEmpty.New()
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrSourceMalformed.New()
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrSourceNotObject.New()
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, ErrSourceMalformed.New().WithCause(err)
	}
	if err := participantsValidator.Validate(v); err != nil {
		return nil, ErrSourceEmpty.New().WithCause(err)
	}

	// gjson walks the object in document order, which encoding/json maps cannot do.
	weights := NewParticipantWeights()
	doc.ForEach(func(key, value gjson.Result) bool {
		weights.SetRaw(key.String(), value.Raw)
		return true
	})
	return weights, nil
}

func parseYAMLParticipants(data []byte) (*ParticipantWeights, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ErrSourceMalformed.New().WithCause(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrSourceEmpty.New()
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, ErrSourceNotObject.New()
	}
	if len(mapping.Content) == 0 {
		return nil, ErrSourceEmpty.New()
	}

	weights := NewParticipantWeights()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind == yaml.ScalarNode && value.Tag == "!!int" {
			var n int64
			if err := value.Decode(&n); err == nil {
				weights.add(ParticipantWeight{Name: key.Value, Raw: value.Value, Weight: n, Integer: true})
				continue
			}
		}
		weights.add(ParticipantWeight{Name: key.Value, Raw: yamlRaw(value)})
	}
	return weights, nil
}

func yamlRaw(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.SequenceNode:
		return "<sequence>"
	case yaml.MappingNode:
		return "<mapping>"
	case yaml.AliasNode:
		return "*" + n.Value
	default:
		return "<unknown>"
	}
}
