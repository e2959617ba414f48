package texttransform

import "strings"

// conversionPairs maps formal/adult register onto informal teen register.
// Ordered so longer or more specific forms are replaced first.
var conversionPairs = [][2]string{
	{"자기야", "너"},
	{"당신", "너"},
	{"직장", "학교"},
	{"회사", "학교"},
	{"업무", "공부"},
	{"동료", "친구"},
	{"상사", "선생님"},
	{"하세요", "해"},
	{"어떠세요", "어때"},
	{"해보세요", "해봐"},
	{"~ㅂ니다", "~야"},
	{"~습니다", "~어"},
}

// InformalConverter shifts formal counseling text into casual speech
// before it is fed to the composer.
type InformalConverter struct {
	replacer *strings.Replacer
}

func NewInformalConverter() *InformalConverter {
	pairs := make([]string, 0, len(conversionPairs)*2)
	for _, p := range conversionPairs {
		pairs = append(pairs, p[0], p[1])
	}
	return &InformalConverter{
		replacer: strings.NewReplacer(pairs...),
	}
}

func (c *InformalConverter) Transform(text string) string {
	return c.replacer.Replace(text)
}
