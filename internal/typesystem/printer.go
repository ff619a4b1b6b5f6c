package typesystem

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/structural/internal/config"
)

// Namer assigns display names (A, B, C, ...) to unbound variables lazily,
// per print call, so output is deterministic regardless of arena size.
type Namer struct {
	next  rune
	names map[Index]string
}

func NewNamer() *Namer {
	return &Namer{next: 'A', names: make(map[Index]string)}
}

func (n *Namer) Name(i Index) string {
	if name, ok := n.names[i]; ok {
		return name
	}
	name := string(n.next)
	n.next++
	n.names[i] = name
	return name
}

// Sprint renders the type at i with a fresh Namer.
func (s *Store) Sprint(i Index) string {
	return s.SprintWith(i, NewNamer())
}

// SprintWith renders the type at i, sharing namer across several types so
// that a variable appearing in more than one of them keeps one name.
func (s *Store) SprintWith(i Index, namer *Namer) string {
	switch k := s.nodes[i].Kind.(type) {
	case *Variable:
		if k.Instance != NoIndex {
			return s.SprintWith(k.Instance, namer)
		}
		if !config.NormalizeVarNames {
			return fmt.Sprintf("t%d", i)
		}
		return namer.Name(i)
	case *Constructor:
		switch {
		case len(k.Types) == 0:
			return k.Name
		case len(k.Types) == 2 && isSymbolicName(k.Name):
			l := s.SprintWith(k.Types[0], namer)
			r := s.SprintWith(k.Types[1], namer)
			return fmt.Sprintf("(%s %s %s)", l, k.Name, r)
		default:
			return fmt.Sprintf("%s<%s>", k.Name, s.sprintList(k.Types, namer, ", "))
		}
	case *Literal:
		return k.Value.String()
	case *Primitive:
		return k.Prim.String()
	case *Keyword:
		return k.Word.String()
	case *Function:
		return s.sprintFunc(k.Params, k.Ret, k.TypeParams, k.Throws, namer)
	case *Union:
		return s.sprintList(k.Types, namer, " | ")
	case *Intersection:
		return s.sprintList(k.Types, namer, " & ")
	case *Tuple:
		return fmt.Sprintf("[%s]", s.sprintList(k.Types, namer, ", "))
	case *Object:
		var fields []string
		for _, elem := range k.Elems {
			switch elem := elem.(type) {
			case *PropElem:
				opt := ""
				if elem.Optional {
					opt = "?"
				}
				fields = append(fields, fmt.Sprintf("%s%s: %s", elem.Name, opt, s.SprintWith(elem.Type, namer)))
			case *CallElem:
				fields = append(fields, s.sprintFunc(elem.Fn.Params, elem.Fn.Ret, elem.Fn.TypeParams, NoIndex, namer))
			case *ConstructorElem:
				fields = append(fields, "new "+s.sprintFunc(elem.Fn.Params, elem.Fn.Ret, elem.Fn.TypeParams, NoIndex, namer))
			case *MappedElem:
				fields = append(fields, fmt.Sprintf("[%s in %s]: %s",
					elem.Target, s.SprintWith(elem.Source, namer), s.SprintWith(elem.Value, namer)))
			}
		}
		return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
	case *Rest:
		return "..." + s.SprintWith(k.Arg, namer)
	case *KeyOf:
		return "keyof " + s.SprintWith(k.Type, namer)
	case *IndexedAccess:
		return fmt.Sprintf("%s[%s]", s.SprintWith(k.Obj, namer), s.SprintWith(k.Key, namer))
	case *Conditional:
		return fmt.Sprintf("%s extends %s ? %s : %s",
			s.SprintWith(k.Check, namer), s.SprintWith(k.Extends, namer),
			s.SprintWith(k.TrueType, namer), s.SprintWith(k.FalseType, namer))
	case *Infer:
		return "infer " + k.Name
	case *Wildcard:
		return "_"
	}
	return fmt.Sprintf("<unknown node %d>", i)
}

func (s *Store) sprintList(types []Index, namer *Namer, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = s.SprintWith(t, namer)
	}
	return strings.Join(parts, sep)
}

func (s *Store) sprintFunc(params []FuncParam, ret Index, typeParams []TypeParam, throws Index, namer *Namer) string {
	var sb strings.Builder
	if len(typeParams) > 0 {
		names := make([]string, len(typeParams))
		for i, tp := range typeParams {
			names[i] = tp.Name
			if tp.Constraint != NoIndex {
				names[i] += ": " + s.SprintWith(tp.Constraint, namer)
			}
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = s.SprintWith(p.Type, namer)
		if p.Optional {
			parts[i] += "?"
		}
	}
	sb.WriteString("(" + strings.Join(parts, ", ") + ") => " + s.SprintWith(ret, namer))
	if throws != NoIndex {
		sb.WriteString(" throws " + s.SprintWith(throws, namer))
	}
	return sb.String()
}

// isSymbolicName reports whether a constructor name is operator-like
// ("*", "+") rather than an identifier, in which case a two-argument
// application prints infix.
func isSymbolicName(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return name != ""
}
