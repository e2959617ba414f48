package texttransform

import "testing"

func TestInformalConverterTransform(t *testing.T) {
	converter := NewInformalConverter()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "address form",
			input: "당신은 충분히 잘하고 있어요",
			want:  "너은 충분히 잘하고 있어요",
		},
		{
			name:  "workplace to school",
			input: "직장에서 상사와 갈등이 있을 때는",
			want:  "학교에서 선생님와 갈등이 있을 때는",
		},
		{
			name:  "work to study",
			input: "업무에 집중해보세요",
			want:  "공부에 집중해봐",
		},
		{
			name:  "colleague to friend",
			input: "동료에게 하세요",
			want:  "친구에게 해",
		},
		{
			name:  "no formal markers untouched",
			input: "괜찮아, 잘 될 거야",
			want:  "괜찮아, 잘 될 거야",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := converter.Transform(tt.input); got != tt.want {
				t.Errorf("Transform(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNoopTransform(t *testing.T) {
	input := "당신은 직장에서 하세요"
	if got := (Noop{}).Transform(input); got != input {
		t.Errorf("Noop.Transform changed the text: %q", got)
	}
}
