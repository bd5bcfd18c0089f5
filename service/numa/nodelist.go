package numa

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	numberCode = iota
	rangeCode
	separatorCode
)

var (
	numberToken    = parsly.NewToken(numberCode, "Number", &digitsMatcher{})
	rangeToken     = parsly.NewToken(rangeCode, "-", matcher.NewByte('-'))
	separatorToken = parsly.NewToken(separatorCode, ",", matcher.NewByte(','))
)

type digitsMatcher struct{}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if c := cursor.Input[i]; c < '0' || c > '9' {
			break
		}
		matched++
	}
	return matched
}

// ParseNodeList parses the kernel list format used by sysfs files such as
// /sys/devices/system/node/online, for example "0-3,6,8-9".  The result is
// in input order and may contain duplicates if the input does.
func ParseNodeList(input []byte) ([]int, error) {
	input = bytes.TrimSpace(input)
	cursor := parsly.NewCursor("", input, 0)
	var nodes []int
	for cursor.Pos < cursor.InputSize {
		first, err := matchNumber(cursor)
		if err != nil {
			return nil, err
		}
		last := first
		if cursor.MatchOne(rangeToken).Code == rangeToken.Code {
			if last, err = matchNumber(cursor); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("invalid node range %d-%d", first, last)
			}
		}
		for node := first; node <= last; node++ {
			nodes = append(nodes, node)
		}
		if cursor.Pos >= cursor.InputSize {
			break
		}
		if cursor.MatchOne(separatorToken).Code != separatorToken.Code {
			return nil, cursor.NewError(separatorToken)
		}
		if cursor.Pos >= cursor.InputSize {
			return nil, fmt.Errorf("node list %q ends with a separator", input)
		}
	}
	return nodes, nil
}

func matchNumber(cursor *parsly.Cursor) (int, error) {
	matched := cursor.MatchOne(numberToken)
	if matched.Code != numberToken.Code {
		return 0, cursor.NewError(numberToken)
	}
	return strconv.Atoi(matched.Text(cursor))
}
