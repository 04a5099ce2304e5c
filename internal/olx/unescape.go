package olx

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

type codeUnescape struct {
	pattern     *regexp2.Regexp
	replacement string
}

// Inline patterns stay on one line, fenced patterns may cross lines.
var codeUnescapes = []codeUnescape{
	{regexp2.MustCompile("(?<=`.*)(&amp;)(?=.*`)", regexp2.None), "&"},
	{regexp2.MustCompile("(?<=```.*)(&amp;)(?=.*```)", regexp2.Singleline|regexp2.Multiline), "&"},
	{regexp2.MustCompile("(?<=`.*)(&pipe;)(?=.*`)", regexp2.None), "|"},
	{regexp2.MustCompile("(?<=```.*)(&pipe;)(?=.*```)", regexp2.Singleline|regexp2.Multiline), "|"},
	{regexp2.MustCompile("(?<=`.*)(&gt;)(?=.*`)", regexp2.None), ">"},
	{regexp2.MustCompile("(?<=```.*)(&gt;)(?=.*```)", regexp2.Singleline|regexp2.Multiline), ">"},
	{regexp2.MustCompile("(?<=`.*)(&lt;)(?=.*`)", regexp2.None), "<"},
	{regexp2.MustCompile("(?<=```.*)(&lt;)(?=.*```)", regexp2.Singleline|regexp2.Multiline), "<"},
}

// UnescapeCode reverts the entities EscapeCode put inside code spans.
func UnescapeCode(text string) (string, error) {
	for _, u := range codeUnescapes {
		replaced, err := u.pattern.Replace(text, u.replacement, -1, -1)
		if err != nil {
			return "", fmt.Errorf("regexp2.Replace(%s) > %w", u.pattern.String(), err)
		}
		text = replaced
	}
	return text, nil
}
