package ocr

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Flatten tests
// ---------------------------------------------------------------------------

func TestFlattenGroups(t *testing.T) {
	resp := Response{
		Groups: []Group{
			{
				Questions: []string{"第一道选择题的完整题干内容"},
				Options:   []string{"A. 甲", "B. 乙"},
				Answers:   []string{"A"},
			},
			{
				Questions: []string{"第二道解答题的完整题干内容"},
			},
		},
	}

	frags := Flatten(resp)
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if !strings.Contains(frags[0].Question, "第一道") {
		t.Errorf("frags[0].Question = %q", frags[0].Question)
	}
	if len(frags[0].Options) != 2 {
		t.Errorf("frags[0] options = %d, want 2", len(frags[0].Options))
	}
}

func TestFlattenOneNestingLevel(t *testing.T) {
	resp := Response{
		Groups: []Group{
			{
				Questions: []string{"大题题干在这里有足够的长度"},
				Children: []Group{
					{Questions: []string{"第一小问的内容文字"}},
					{Questions: []string{"第二小问的内容文字"}},
				},
			},
		},
	}

	frags := Flatten(resp)
	if len(frags) != 3 {
		t.Fatalf("expected parent + 2 children = 3 fragments, got %d", len(frags))
	}
	if !strings.Contains(frags[1].Question, "第一小问") {
		t.Errorf("frags[1].Question = %q", frags[1].Question)
	}
}

func TestFlattenRawTextFallback(t *testing.T) {
	resp := Response{
		Groups:  []Group{{Questions: []string{"短"}}},
		RawText: "识别器返回的整段原始文本远比结构化字段要长得多",
	}

	frags := Flatten(resp)
	if len(frags) != 1 {
		t.Fatalf("expected 1 raw-text fragment, got %d", len(frags))
	}
	if frags[0].Question != resp.RawText {
		t.Errorf("fallback fragment = %q, want the raw text", frags[0].Question)
	}
}

func TestFlattenStructuredWinsWhenLongEnough(t *testing.T) {
	resp := Response{
		Groups:  []Group{{Questions: []string{"一段足够长的结构化题干文字内容超过阈值限制"}}},
		RawText: strings.Repeat("原始文本", 100),
	}

	frags := Flatten(resp)
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Question == resp.RawText {
		t.Error("structured content should win when long enough")
	}
}

func TestFlattenSkipsEmptyGroups(t *testing.T) {
	resp := Response{
		Groups: []Group{
			{},
			{Questions: []string{"   "}},
			{Questions: []string{"唯一有内容的题目组保留下来"}},
		},
	}

	frags := Flatten(resp)
	if len(frags) != 1 {
		t.Errorf("expected empty groups to be skipped, got %d fragments", len(frags))
	}
}

func TestFlattenEmptyResponse(t *testing.T) {
	if got := Flatten(Response{}); got != nil {
		t.Errorf("expected nil for empty response, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// FragmentText rendering tests
// ---------------------------------------------------------------------------

func TestFragmentTextJoins(t *testing.T) {
	f := FragmentText{
		Question: "下列哪个选项正确",
		Options:  []string{"A. 甲", "B. 乙"},
		Answers:  []string{"B"},
	}

	got := f.Text()
	want := "下列哪个选项正确\nA. 甲\nB. 乙\n答案：B"
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestFragmentTextLabeledAnswerKept(t *testing.T) {
	f := FragmentText{
		Question: "题干内容",
		Answers:  []string{"答案：C"},
	}
	got := f.Text()
	if strings.Count(got, "答案") != 1 {
		t.Errorf("already-labeled answer must not be relabeled: %q", got)
	}
}

func TestFragmentTextQuestionOnly(t *testing.T) {
	f := FragmentText{Question: "只有题干"}
	if got := f.Text(); got != "只有题干" {
		t.Errorf("Text() = %q", got)
	}
}
