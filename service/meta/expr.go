package meta

import (
	"bytes"
	"os"

	"github.com/viant/parsly"
)

const envExprCode = 1

var (
	envPrefix    = []byte("${env.")
	envExprToken = parsly.NewToken(envExprCode, "${env.NAME}", &envExprMatcher{})
)

// envExprMatcher matches ${env.NAME} where NAME holds letters, digits or '_'
// and may be empty.
type envExprMatcher struct{}

func (m *envExprMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if !bytes.HasPrefix(input, envPrefix) {
		return 0
	}
	for i := len(envPrefix); i < len(input); i++ {
		switch c := input[i]; {
		case c == '}':
			return i + 1
		case c == '_', c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return 0
		}
	}
	return 0
}

// expandEnvExpr replaces every ${env.NAME} in data with the value of the
// environment variable NAME, empty when unset.  Malformed expressions are
// copied verbatim.
func expandEnvExpr(data []byte) []byte {
	if !bytes.Contains(data, envPrefix) {
		return data
	}
	cursor := parsly.NewCursor("", data, 0)
	var out bytes.Buffer
	out.Grow(len(data))
	for cursor.Pos < cursor.InputSize {
		next := bytes.Index(data[cursor.Pos:], envPrefix)
		if next < 0 {
			out.Write(data[cursor.Pos:])
			break
		}
		out.Write(data[cursor.Pos : cursor.Pos+next])
		cursor.Pos += next
		if matched := cursor.MatchOne(envExprToken); matched.Code == envExprCode {
			expr := matched.Text(cursor)
			out.WriteString(os.Getenv(expr[len(envPrefix) : len(expr)-1]))
			continue
		}
		out.WriteByte(data[cursor.Pos])
		cursor.Pos++
	}
	return out.Bytes()
}
