package photodupe

import (
	"encoding/json"
	"testing"
)

func TestLabelString(t *testing.T) {
	t.Parallel()

	for _, l := range []Label{LabelNotAnalyzed, LabelUnique, LabelBestMatch, LabelSimilar, LabelDuplicate} {
		if got := ParseLabel(l.String()); got != l {
			t.Errorf("ParseLabel(%q) = %v, want %v", l.String(), got, l)
		}
	}
	if got := ParseLabel(" Best Match "); got != LabelBestMatch {
		t.Errorf("ParseLabel(\" Best Match \") = %v", got)
	}
	if got := ParseLabel("garbage"); got != LabelNotAnalyzed {
		t.Errorf("ParseLabel(garbage) = %v, want not_analyzed", got)
	}
}

func TestLabelJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct{ L Label }{LabelSimilar})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"L":"similar"}` {
		t.Errorf("Marshal = %s", b)
	}
	var out struct{ L Label }
	if err := json.Unmarshal([]byte(`{"L":"duplicate"}`), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.L != LabelDuplicate {
		t.Errorf("Unmarshal label = %v", out.L)
	}
}
