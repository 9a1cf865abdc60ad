package scenekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Document keys of a serialized light.
const (
	KeyPosition = "position"
	KeyColor    = "color"
	KeyRange    = "range"
)

const DefaultLightRange float32 = 4.0

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
	LightTypeAmbient     LightType = 3
)

// LightRecord holds the parameters of one point light as stored in scene data.
// It is a plain value; copies are independent.
type LightRecord struct {
	Position mgl32.Vec3 // world space
	Color    mgl32.Vec3 // RGB, usually in [0,1]
	Range    float32    // radius of effect in world units
}

// NewLightRecord returns a white light at the origin with the default range.
func NewLightRecord() LightRecord {
	return LightRecord{
		Position: mgl32.Vec3{0, 0, 0},
		Color:    mgl32.Vec3{1, 1, 1},
		Range:    DefaultLightRange,
	}
}

// Document converts the light to an untyped structured document holding
// exactly the position, color and range keys.
func (l LightRecord) Document() map[string]any {
	return map[string]any{
		KeyPosition: vecDocument(l.Position),
		KeyColor:    vecDocument(l.Color),
		KeyRange:    float64(l.Range),
	}
}

func vecDocument(v mgl32.Vec3) []any {
	return []any{float64(v[0]), float64(v[1]), float64(v[2])}
}

// LightRecordFromDocument reads a light from an untyped structured document.
// All three keys are required; nothing is defaulted. On error the zero
// LightRecord is returned.
func LightRecordFromDocument(doc map[string]any) (LightRecord, error) {
	if doc == nil {
		return LightRecord{}, &MissingFieldError{Field: KeyPosition}
	}

	position, err := vecField(doc, KeyPosition, "x", "y", "z")
	if err != nil {
		return LightRecord{}, err
	}
	color, err := vecField(doc, KeyColor, "r", "g", "b")
	if err != nil {
		return LightRecord{}, err
	}
	raw, ok := doc[KeyRange]
	if !ok {
		return LightRecord{}, &MissingFieldError{Field: KeyRange}
	}
	rng, err := toFloat32(raw)
	if err != nil {
		return LightRecord{}, &TypeMismatchError{Field: KeyRange, Want: "number", Got: raw}
	}

	return LightRecord{Position: position, Color: color, Range: rng}, nil
}

// vecField reads a 3-component vector stored either as a sequence or as an
// object with the given component names.
func vecField(doc map[string]any, key string, names ...string) (mgl32.Vec3, error) {
	raw, ok := doc[key]
	if !ok {
		return mgl32.Vec3{}, &MissingFieldError{Field: key}
	}
	mismatch := &TypeMismatchError{Field: key, Want: "3-component number array", Got: raw}

	switch v := raw.(type) {
	case mgl32.Vec3:
		return v, nil
	case [3]float32:
		return mgl32.Vec3(v), nil
	case map[string]any:
		if len(v) != 3 {
			return mgl32.Vec3{}, mismatch
		}
		var out mgl32.Vec3
		for i, name := range names {
			c, ok := v[name]
			if !ok {
				return mgl32.Vec3{}, mismatch
			}
			f, err := toFloat32(c)
			if err != nil {
				return mgl32.Vec3{}, mismatch
			}
			out[i] = f
		}
		return out, nil
	}

	rv := reflect.ValueOf(raw)
	if raw == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != 3 {
		return mgl32.Vec3{}, mismatch
	}
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := toFloat32(rv.Index(i).Interface())
		if err != nil {
			return mgl32.Vec3{}, mismatch
		}
		out[i] = f
	}
	return out, nil
}

// toFloat32 accepts numeric values only. json.Number is parsed at 32-bit
// precision so decimal text round-trips exactly. Finite values outside the
// float32 range are rejected rather than turned into infinities.
func toFloat32(v any) (float32, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 32)
		if err != nil {
			return 0, err
		}
		return float32(f), nil
	case float32:
		return n, nil
	case float64:
		if !math.IsInf(n, 0) && math.Abs(n) > math.MaxFloat32 {
			return 0, fmt.Errorf("%g overflows float32", n)
		}
		return float32(n), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToFloat32E(n)
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

type lightJSON struct {
	Position mgl32.Vec3 `json:"position" yaml:"position,flow"`
	Color    mgl32.Vec3 `json:"color" yaml:"color,flow"`
	Range    float32    `json:"range" yaml:"range"`
}

// MarshalJSON writes {"position":[...],"color":[...],"range":r} in that order.
func (l LightRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(lightJSON{Position: l.Position, Color: l.Color, Range: l.Range})
}

func (l *LightRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if doc == nil {
		return &TypeMismatchError{Field: "light", Want: "object", Got: nil}
	}
	rec, err := LightRecordFromDocument(doc)
	if err != nil {
		return err
	}
	*l = rec
	return nil
}

func (l LightRecord) MarshalYAML() (any, error) {
	return lightJSON{Position: l.Position, Color: l.Color, Range: l.Range}, nil
}

func (l *LightRecord) UnmarshalYAML(node *yaml.Node) error {
	raw, err := yamlDocument(node)
	if err != nil {
		return err
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return &TypeMismatchError{Field: "light", Want: "object", Got: raw}
	}
	rec, err := LightRecordFromDocument(doc)
	if err != nil {
		return err
	}
	*l = rec
	return nil
}

// maxYAMLAliases bounds alias expansion in a single light document.
const maxYAMLAliases = 1000

// yamlDocument converts a node tree to plain maps and slices. Int and float
// scalars are kept as json.Number so they get the same exact parsing as JSON.
func yamlDocument(node *yaml.Node) (any, error) {
	w := yamlWalker{expanding: make(map[*yaml.Node]bool)}
	return w.walk(node)
}

type yamlWalker struct {
	expanding map[*yaml.Node]bool
	aliases   int
}

func (w *yamlWalker) walk(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return w.walk(node.Content[0])
	case yaml.AliasNode:
		w.aliases++
		if w.aliases > maxYAMLAliases {
			return nil, fmt.Errorf("yaml: document contains more than %d aliases", maxYAMLAliases)
		}
		if node.Alias == nil {
			return nil, fmt.Errorf("yaml: unknown anchor %q referenced", node.Value)
		}
		if w.expanding[node.Alias] {
			return nil, fmt.Errorf("yaml: anchor %q value contains itself", node.Value)
		}
		return w.walk(node.Alias)
	case yaml.MappingNode:
		w.expanding[node] = true
		defer delete(w.expanding, node)
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := w.walk(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[node.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		w.expanding[node] = true
		defer delete(w.expanding, node)
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := w.walk(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int", "!!float":
			if _, err := strconv.ParseFloat(node.Value, 32); err == nil {
				return json.Number(node.Value), nil
			}
		}
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// LightComponent is the ECS component for lights
type LightComponent struct {
	Type      LightType
	Color     [3]float32 // RGB
	Intensity float32
	Range     float32 // For point/spot
	ConeAngle float32 // Full cone angle in degrees (spot)
}

// Component returns the light as a point LightComponent with unit intensity.
func (l LightRecord) Component() LightComponent {
	return LightComponent{
		Type:      LightTypePoint,
		Color:     [3]float32(l.Color),
		Intensity: 1.0,
		Range:     l.Range,
	}
}

// GPULight is the packed representation of a light uploaded to the renderer.
type GPULight struct {
	Position  [4]float32 // xyz, w=1
	Direction [4]float32 // xyz, unused for point lights
	Color     [4]float32 // rgb, intensity
	Params    [4]float32 // range, cone_angle_cos, type, padding
}

func (l LightRecord) GPULight() GPULight {
	var g GPULight
	g.Position = [4]float32{l.Position.X(), l.Position.Y(), l.Position.Z(), 1.0}
	g.Color = [4]float32{l.Color[0], l.Color[1], l.Color[2], 1.0}
	g.Params = [4]float32{l.Range, 0, float32(LightTypePoint), 0}
	return g
}
