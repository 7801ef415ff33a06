package question

import "testing"

// ---------------------------------------------------------------------------
// Type classification tests
// ---------------------------------------------------------------------------

func TestClassifyType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		{"letter_options", "下列正确的是\nA. 甲\nB. 乙\nC. 丙\nD. 丁", TypeChoice},
		{"parenthesized_option", "选出正确答案（A）或（B）", TypeChoice},
		{"circled_options", "正确的组合是 ①③ 还是 ②④", TypeChoice},
		{"underscore_blank", "函数的定义域是 ____。", TypeFill},
		{"empty_parens_blank", "计算结果为（  ）", TypeFill},
		{"tex_fill", `方程的解为 \fill 。`, TypeFill},
		{"tex_underline", `结果是 \underline{\quad} 。`, TypeFill},
		{"plain_solution", "证明：对任意正整数 n，命题成立。", TypeSolution},
		{"empty", "", TypeSolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyType(tt.text); got != tt.want {
				t.Errorf("ClassifyType(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Choice wins over fill when both marker kinds appear: choice stems
// routinely contain blanks.
func TestClassifyTypeChoiceBeatsFill(t *testing.T) {
	text := "在横线处填入正确选项 ____\nA. 第一项\nB. 第二项"
	if got := ClassifyType(text); got != TypeChoice {
		t.Errorf("ClassifyType = %q, want %q", got, TypeChoice)
	}
}

// Classification is a pure function of the text: repeated calls agree.
func TestClassifyTypeDeterministic(t *testing.T) {
	samples := []string{
		"A. 选项一 B. 选项二",
		"填空：____",
		"解答下列问题。",
		"混合 ____ 与 A. 标记",
	}
	for _, s := range samples {
		first := ClassifyType(s)
		for i := 0; i < 50; i++ {
			if got := ClassifyType(s); got != first {
				t.Fatalf("ClassifyType(%q) changed between calls: %q then %q", s, first, got)
			}
		}
	}
}
