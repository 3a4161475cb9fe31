// Some helpers using closures to generate values
package valgen

import (
	"math/rand"
	"strings"
)

func MakeConstGen(constant int) func() int {
	return func() int {
		return constant
	}
}

func MakeIncreasingGen(start int) func() int {
	current := start
	return func() int {
		current++
		return current
	}
}

// Loops that always terminate, most of them in the shapes the parser
// rewrites.
var loopSnippets = []string{
	"[-]",
	"[+]",
	"[>]",
	"[<]",
	"[->+<]",
	"[-<+>]",
	"[->++>-<<]",
	"[->+>+<<]",
	"[->+>-<+<]",
	"[>+<-]",
	"[->.<]",
}

var plainOps = []byte("+-<>.,")

// MakeProgramGen returns a generator of random programs with balanced loops
// that always terminate on a tape with a zero cell. Each program has about
// length operators, starts with an increment, and ends with an output, so it
// never parses to nothing.
func MakeProgramGen(seed int64, length int) func() string {
	r := rand.New(rand.NewSource(seed))

	return func() string {
		var sb strings.Builder
		sb.WriteByte('+')

		for sb.Len() < length {
			switch n := r.Intn(10); {
			case n < 3:
				sb.WriteString(loopSnippets[r.Intn(len(loopSnippets))])
			case n < 4:
				// A counted loop around a snippet.
				sb.WriteString(strings.Repeat("+", 1+r.Intn(4)))
				sb.WriteString("[>")
				sb.WriteString(loopSnippets[r.Intn(len(loopSnippets))])
				sb.WriteString("<-]")
			default:
				sb.WriteString(strings.Repeat(
					string(plainOps[r.Intn(len(plainOps))]), 1+r.Intn(5)))
			}
		}

		sb.WriteByte('.')

		return sb.String()
	}
}
