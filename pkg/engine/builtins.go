package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/constraint"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/scene"
	"github.com/mikeybergman-phi/phi-sphere-lab/pkg/sizes"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source before it reaches zygomys:
//
//  1. `;` line comments become `//` (zygomys has no Lisp-style comments).
//  2. `:keyword` tokens become "__kw_keyword" string literals, so keyword
//     arguments need no global symbol registration.
//
// String literal boundaries are respected. All builtin names here are
// single words, so no identifier rewriting is needed.
func preprocessSource(source string) string {
	var out []byte
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch {
		case b[i] == '"':
			// Copy a double-quoted string verbatim, honoring escapes.
			out = append(out, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					out = append(out, b[i], b[i+1])
					i += 2
					continue
				}
				out = append(out, b[i])
				i++
			}
			if i < len(b) {
				out = append(out, b[i])
				i++
			}
		case b[i] == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isIdentChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		default:
			out = append(out, b[i])
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 wraps a scene.Vec3 so positions can be passed between builtins.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.2f %.2f %.2f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSphere wraps a placed sphere's id so it can be settled or dragged by
// later forms.
type sexpSphere struct {
	id  scene.NodeID
	exp int
}

func (s *sexpSphere) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sphere#%d exp %d)", s.id, s.exp)
}
func (s *sexpSphere) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if len(str.S) > len(kwPrefix) && str.S[:len(kwPrefix)] == kwPrefix {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a scene.Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSphereID extracts a sphere id from a sexpSphere or a bare integer.
func toSphereID(s zygo.Sexp) (scene.NodeID, error) {
	switch v := s.(type) {
	case *sexpSphere:
		return v.id, nil
	case *zygo.SexpInt:
		return scene.NodeID(v.Val), nil
	}
	return 0, fmt.Errorf("expected sphere reference or id, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL into a zygomys environment. The
// builtins mutate the provided store during evaluation; cfg governs the
// (settle ...) form.
//
// Source must be preprocessed with preprocessSource() first so :keyword
// tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Store, cfg constraint.Config) {

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 numbers")
		}
		var v scene.Vec3
		for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			*dst = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// (sphere :exp 3 :at (vec3 1 2 3))  — :at optional, random drop if absent
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		expSexp, ok := pa.kw["exp"]
		if !ok {
			if len(pa.positional) == 0 {
				return zygo.SexpNull, fmt.Errorf("sphere: missing :exp")
			}
			expSexp = pa.positional[0]
		}
		exp, err := toInt(expSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: exp: %w", err)
		}
		if !sizes.Valid(exp) {
			return zygo.SexpNull, fmt.Errorf("sphere: exponent %d is not on the size ladder", exp)
		}

		var at *scene.Vec3
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: at: %w", err)
			}
			at = &vec
		}

		n := s.AddNode(exp, at)
		return &sexpSphere{id: n.ID, exp: n.Exponent}, nil
	})

	// (sizeset) — one sphere per ladder exponent, row layout
	env.AddFunction("sizeset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		set := s.AddSizeSet()
		refs := make([]zygo.Sexp, len(set))
		for i, n := range set {
			refs[i] = &sexpSphere{id: n.ID, exp: n.Exponent}
		}
		return &zygo.SexpArray{Val: refs}, nil
	})

	// (drag ref (vec3 x y z)) — hinge-constrained move
	env.AddFunction("drag", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("drag requires a sphere and a vec3")
		}
		id, err := toSphereID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drag: %w", err)
		}
		target, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drag: %w", err)
		}
		constraint.DragMove(s, id, target)
		return args[0], nil
	})

	// (settle ref) — run the magnetic snap; returns the sphere when a link
	// locked, nil otherwise
	env.AddFunction("settle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("settle requires a sphere")
		}
		id, err := toSphereID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("settle: %w", err)
		}
		if _, snapped := constraint.Release(s, id, cfg); !snapped {
			return zygo.SexpNull, nil
		}
		return args[0], nil
	})
}
