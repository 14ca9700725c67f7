package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/anicholas99/claimgraph/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *ReviseResponse
	err       error
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Revise(ctx context.Context, req ReviseRequest) (*ReviseResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func testReport() model.AnalysisReport {
	return model.AnalysisReport{
		Subject:    "Imaging Device",
		ClaimCount: 2,
		Claims: []model.ParsedClaim{
			{
				Claim: model.Claim{ID: "c1", Number: 1, Text: "A system comprising a thermal sensor."},
				Type:  model.ClaimTypeSystem,
			},
			{
				Claim:      model.Claim{ID: "c2", Number: 2, Text: "The system of claim 1, wherein the sensor is cooled."},
				Type:       model.ClaimTypeSystem,
				References: []int{1},
			},
		},
		Issues: []model.ConsistencyIssue{
			{
				Type:        model.IssueForwardReference,
				Severity:    model.SeverityError,
				ClaimNumber: 2,
				Message:     "references itself",
			},
		},
		Stats: model.ReportStats{Independent: 1, Dependent: 1, Errors: 1},
	}
}

func TestNewReviser_DisabledProvider(t *testing.T) {
	config := Config{
		Provider: "", // Empty = disabled
	}

	reviser, err := NewReviser(config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reviser.provider != nil {
		t.Error("Expected provider to be nil when disabled")
	}

	if reviser.IsEnabled() {
		t.Error("Expected reviser to be disabled")
	}

	if reviser.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestNewReviser_UnknownProvider(t *testing.T) {
	_, err := NewReviser(Config{Provider: "carrier-pigeon"})
	if err == nil {
		t.Fatal("Expected error for unknown provider, got nil")
	}
}

func TestReviser_Suggest_Disabled(t *testing.T) {
	reviser := &Reviser{
		provider: nil,
		config:   Config{},
	}

	notes, err := reviser.Suggest(context.Background(), testReport())

	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}

	if notes != nil {
		t.Error("Expected nil notes when provider disabled")
	}
}

func TestReviser_Suggest_ProviderUnavailable(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: false, // Provider not available
	}

	reviser := &Reviser{
		provider: mockProvider,
		config:   Config{StrictReferences: true},
	}

	notes, err := reviser.Suggest(context.Background(), testReport())

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if notes == nil {
		t.Fatal("Expected notes object with warnings")
	}

	if notes.Enabled {
		t.Error("Expected notes to be marked as disabled")
	}

	found := false
	for _, warning := range notes.Warnings {
		if strings.Contains(warning, "not available") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected warning to mention provider unavailability")
	}
}

func TestReviser_Suggest_Success(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &ReviseResponse{
			Suggestions:      "- Amend claim 2 to depend from claim 1.",
			ReferencedClaims: []int{1, 2},
			Model:            "test-model",
			TokensUsed:       150,
		},
	}

	reviser := &Reviser{
		provider: mockProvider,
		config: Config{
			Model:            "test-model",
			StrictReferences: true,
		},
	}

	notes, err := reviser.Suggest(context.Background(), testReport())

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if notes == nil {
		t.Fatal("Expected notes to be generated")
	}

	if !notes.Enabled {
		t.Error("Expected notes to be enabled")
	}

	if notes.Provider != "test-provider" {
		t.Errorf("Expected provider 'test-provider', got '%s'", notes.Provider)
	}

	if notes.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", notes.Model)
	}

	if !notes.StrictReferences {
		t.Error("Expected strict references mode to be enabled")
	}

	if notes.SuggestionsMD != "- Amend claim 2 to depend from claim 1." {
		t.Errorf("Expected suggestion text to match, got '%s'", notes.SuggestionsMD)
	}

	// Check warnings include token usage and reference verification
	foundTokens := false
	foundRefs := false
	for _, warning := range notes.Warnings {
		if strings.Contains(warning, "Tokens used") {
			foundTokens = true
		}
		if strings.Contains(warning, "Verified") && strings.Contains(warning, "references") {
			foundRefs = true
		}
	}

	if !foundTokens {
		t.Error("Expected warning about tokens used")
	}

	if !foundRefs {
		t.Error("Expected warning about verified references")
	}
}

func TestReviser_Suggest_ProviderError(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "test-provider",
		available: true,
		err:       &mockError{msg: "API rate limit exceeded"},
	}

	reviser := &Reviser{
		provider: mockProvider,
		config: Config{
			Model:            "test-model",
			StrictReferences: true,
		},
	}

	notes, err := reviser.Suggest(context.Background(), testReport())

	// Should not fail the caller's analysis, just return notes with warnings
	if err != nil {
		t.Errorf("Expected no error (graceful degradation), got %v", err)
	}

	if notes == nil {
		t.Fatal("Expected notes with error warning")
	}

	if !notes.Enabled {
		t.Error("Expected notes to be marked as enabled (but failed)")
	}

	found := false
	for _, warning := range notes.Warnings {
		if strings.Contains(warning, "failed") && strings.Contains(warning, "rate limit") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected warning to mention error: %v", notes.Warnings)
	}
}

func TestRenderSeparateMarkdown_Disabled(t *testing.T) {
	notes := &model.RevisionNotes{
		Enabled: false,
	}

	md := RenderSeparateMarkdown(notes)

	if md != "" {
		t.Error("Expected empty markdown when disabled")
	}
}

func TestRenderSeparateMarkdown_Nil(t *testing.T) {
	md := RenderSeparateMarkdown(nil)

	if md != "" {
		t.Error("Expected empty markdown when nil")
	}
}

func TestRenderSeparateMarkdown_Success(t *testing.T) {
	notes := &model.RevisionNotes{
		Enabled:          true,
		Provider:         "openai",
		Model:            "gpt-4o-mini",
		StrictReferences: true,
		SuggestionsMD:    "- Amend claim 2 to depend from claim 1.",
		Warnings: []string{
			"Tokens used: 150",
			"Verified 2 claim references against the claim set",
		},
	}

	md := RenderSeparateMarkdown(notes)

	if md == "" {
		t.Fatal("Expected markdown to be generated")
	}

	requiredSections := []string{
		"# Revision Suggestions",
		"GENERATED CONTENT",
		"Provider",
		"openai",
		"Model",
		"gpt-4o-mini",
		"Strict References Mode",
		"true",
		"Amend claim 2 to depend from claim 1.",
		"## Notes",
		"Tokens used: 150",
		"Verified 2 claim references",
	}

	for _, section := range requiredSections {
		if !strings.Contains(md, section) {
			t.Errorf("Expected markdown to contain '%s'", section)
		}
	}

	// Check disclaimer is present
	if !strings.Contains(md, "determined independently") {
		t.Error("Expected disclaimer about independence from LLM")
	}
}

func TestRenderSeparateMarkdown_NoSuggestions(t *testing.T) {
	notes := &model.RevisionNotes{
		Enabled:          true,
		Provider:         "test-provider",
		StrictReferences: true,
		SuggestionsMD:    "", // Empty suggestions
	}

	md := RenderSeparateMarkdown(notes)

	if !strings.Contains(md, "No suggestions generated") {
		t.Error("Expected message about no suggestions")
	}
}

func TestBuildPrompt_BasicStructure(t *testing.T) {
	report := testReport()
	prompt := BuildPrompt(report, []int{1, 2})

	requiredElements := []string{
		"CRITICAL RULES",
		"MUST ONLY reference claim numbers from this allowed list",
		"claim 1",
		"claim 2",
		"DO NOT invent claims",
		"Subject: Imaging Device",
		"Claims: 2 (1 independent, 1 dependent)",
		"1 errors, 0 warnings",
		"[error] claim 2: references itself",
		"Claim 1 (system): A system comprising a thermal sensor.",
		"only structure",
	}

	for _, element := range requiredElements {
		if !strings.Contains(prompt, element) {
			t.Errorf("Expected prompt to contain '%s'", element)
		}
	}
}

func TestBuildPrompt_NoClaims(t *testing.T) {
	prompt := BuildPrompt(model.AnalysisReport{Subject: "Empty"}, nil)

	if !strings.Contains(prompt, "No claims available") {
		t.Error("Expected message about no allowed claims")
	}
}

func TestBuildPrompt_ManyClaims(t *testing.T) {
	allowed := make([]int, 55)
	for i := range allowed {
		allowed[i] = i + 1
	}

	prompt := BuildPrompt(model.AnalysisReport{Subject: "Big Set"}, allowed)

	// Should limit to 50 claims and show "... and X more"
	if !strings.Contains(prompt, "and 5 more claims") {
		t.Error("Expected truncation message for many claims")
	}

	if !strings.Contains(prompt, "claim 1") {
		t.Error("Expected first claim to be in prompt")
	}
}

func TestBuildPrompt_ManyFindings(t *testing.T) {
	report := testReport()
	for i := 0; i < 14; i++ {
		report.Issues = append(report.Issues, model.ConsistencyIssue{
			Type:     model.IssueMissingReference,
			Severity: model.SeverityError,
			Message:  "missing target",
		})
	}

	prompt := BuildPrompt(report, []int{1, 2})

	// 15 findings total, capped at 10
	if !strings.Contains(prompt, "and 5 more findings") {
		t.Error("Expected truncation message for many findings")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Errorf("Expected provider to be empty (disabled), got '%s'", config.Provider)
	}

	if !config.StrictReferences {
		t.Error("Expected strict references to be enabled by default (CRITICAL)")
	}

	if config.Timeout <= 0 {
		t.Error("Expected positive timeout")
	}

	if config.MaxTokens <= 0 {
		t.Error("Expected positive max tokens")
	}
}

func TestCheckAllowed(t *testing.T) {
	if err := checkAllowed([]int{1, 2}, []int{1, 2, 3}); err != nil {
		t.Errorf("Expected allowed references to pass, got %v", err)
	}

	err := checkAllowed([]int{1, 9}, []int{1, 2, 3})
	if err == nil {
		t.Fatal("Expected error for out-of-set reference")
	}
	if !strings.Contains(err.Error(), "REFERENCE LEAK") {
		t.Errorf("Expected REFERENCE LEAK error, got %v", err)
	}
	if !strings.Contains(err.Error(), "claim 9") {
		t.Errorf("Expected offending claim number in error, got %v", err)
	}
}

func TestExtractClaimRefs(t *testing.T) {
	refs := extractClaimRefs("Amend claim 2 to depend from claim 1, and leave claims 3-4 unchanged.")

	want := []int{1, 2, 3, 4}
	if len(refs) != len(want) {
		t.Fatalf("Expected %v, got %v", want, refs)
	}
	for i, n := range want {
		if refs[i] != n {
			t.Fatalf("Expected %v, got %v", want, refs)
		}
	}
}

func TestReviser_IsEnabled(t *testing.T) {
	disabled := &Reviser{
		provider: nil,
	}

	if disabled.IsEnabled() {
		t.Error("Expected IsEnabled() to return false when provider is nil")
	}

	enabled := &Reviser{
		provider: &MockProvider{name: "test"},
	}

	if !enabled.IsEnabled() {
		t.Error("Expected IsEnabled() to return true when provider exists")
	}
}

func TestReviser_ProviderName(t *testing.T) {
	disabled := &Reviser{
		provider: nil,
	}

	if disabled.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	enabled := &Reviser{
		provider: &MockProvider{name: "test-provider"},
	}

	if enabled.ProviderName() != "test-provider" {
		t.Errorf("Expected provider name 'test-provider', got '%s'", enabled.ProviderName())
	}
}

// Mock error type for testing
type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}
