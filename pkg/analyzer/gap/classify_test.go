package gap

import "testing"

func TestClassify_Defaults(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		name string
		f    Finding
		want Severity
	}{
		{"empty block", Finding{Category: CategoryEmptyBlock, File: "pkg/core/run.go"}, SeverityMedium},
		{"null return", Finding{Category: CategoryNullReturn, File: "pkg/core/run.go"}, SeverityMedium},
		{"empty catch", Finding{Category: CategoryErrorHandling, File: "pkg/core/run.js", Detail: "empty catch"}, SeverityHigh},
		{"log-only catch", Finding{Category: CategoryErrorHandling, File: "pkg/core/run.js", Detail: "only logging"}, SeverityMedium},
		{"missing default", Finding{Category: CategoryMissingDefault, File: "pkg/core/run.go", Subject: "kind"}, SeverityMedium},
		{"suspicious literal", Finding{Category: CategorySuspiciousPattern, File: "pkg/core/run.go", ConstructKind: "string literal"}, SeverityMedium},
		{"suspicious comment", Finding{Category: CategorySuspiciousPattern, File: "pkg/core/run.go", ConstructKind: "comment"}, SeverityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Classify(tc.f); got != tc.want {
				t.Errorf("Classify(%s) = %s, want %s", tc.name, got, tc.want)
			}
		})
	}
}

func TestClassify_IOFacingEscalation(t *testing.T) {
	c := NewClassifier()
	f := Finding{Category: CategoryErrorHandling, File: "src/http/client.js", Detail: "only logging"}
	if got := c.Classify(f); got != SeverityHigh {
		t.Errorf("log-only catch in IO-facing file = %s, want high", got)
	}
}

func TestClassify_ErrorCodeSwitch(t *testing.T) {
	c := NewClassifier()
	f := Finding{Category: CategoryMissingDefault, File: "pkg/core/run.go", Subject: "resp.StatusCode"}
	if got := c.Classify(f); got != SeverityHigh {
		t.Errorf("error-code switch = %s, want high", got)
	}
}

func TestClassify_TestFileReduced(t *testing.T) {
	c := NewClassifier()
	f := Finding{Category: CategoryEmptyBlock, File: "pkg/core/run_test.go"}
	if got := c.Classify(f); got != SeverityLow {
		t.Errorf("empty block in test file = %s, want low", got)
	}

	f = Finding{Category: CategoryErrorHandling, File: "src/__tests__/client.spec.ts", Detail: "empty catch"}
	if got := c.Classify(f); got != SeverityMedium {
		t.Errorf("empty catch in test file = %s, want medium", got)
	}
}

func TestClassify_TotalFunction(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify(Finding{Category: Category("unknown"), File: "x.go"}); got == "" {
		t.Error("unknown category must still classify")
	}
}

func TestSeverity_EscalateReduce(t *testing.T) {
	if SeverityLow.Escalate() != SeverityMedium || SeverityMedium.Escalate() != SeverityHigh {
		t.Error("Escalate ladder broken")
	}
	if SeverityHigh.Escalate() != SeverityHigh {
		t.Error("Escalate must cap at high")
	}
	if SeverityHigh.Reduce() != SeverityMedium || SeverityMedium.Reduce() != SeverityLow {
		t.Error("Reduce ladder broken")
	}
	if SeverityLow.Reduce() != SeverityLow {
		t.Error("Reduce must floor at low")
	}
	if SeverityHigh.Weight() <= SeverityMedium.Weight() || SeverityMedium.Weight() <= SeverityLow.Weight() {
		t.Error("Weight ordering broken")
	}
}
