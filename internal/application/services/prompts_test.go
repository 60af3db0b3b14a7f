package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_ShortRecordIncludedVerbatim(t *testing.T) {
	record := "Patient: Jane Doe\nHbA1c: 5.4%\nBP: 118/76"

	prompt := BuildPrompt(record, "Is my blood sugar normal?")

	assert.Contains(t, prompt.UserMessage, "PATIENT HEALTH RECORDS:\n"+record+"\n\nPATIENT QUESTION:\nIs my blood sugar normal?\n")
	assert.NotContains(t, prompt.UserMessage, "[Note: Record truncated")
	assert.Equal(t, 0.7, prompt.Temperature)
	assert.Equal(t, 1200, prompt.MaxOutputTokens)
	assert.Contains(t, prompt.SystemInstruction, "intelligent health assistant")
	assert.Contains(t, prompt.SystemInstruction, "suggest consulting a doctor")
}

func TestBuildPrompt_UserMessageLayout(t *testing.T) {
	prompt := BuildPrompt("R", "Q")

	expected := "\nPATIENT HEALTH RECORDS:\nR\n\nPATIENT QUESTION:\nQ\n\n" +
		"Please analyze the records and answer the patient's question accurately and clearly.\n"
	assert.Equal(t, expected, prompt.UserMessage)
}

func TestTruncateRecord_ExactlyAtLimitUnchanged(t *testing.T) {
	record := strings.Repeat("a", MaxRecordChars)

	assert.Equal(t, record, TruncateRecord(record))
}

func TestTruncateRecord_OverLimit(t *testing.T) {
	head := strings.Repeat("a", MaxRecordChars)
	record := head + "TAIL-SHOULD-NOT-APPEAR"

	truncated := TruncateRecord(record)

	assert.Equal(t, head+TruncationNote, truncated)
	assert.NotContains(t, truncated, "TAIL")

	prompt := BuildPrompt(record, "question")
	assert.Contains(t, prompt.UserMessage, head+"\n\n[Note: Record truncated for AI analysis due to size limit.]")
	assert.NotContains(t, prompt.UserMessage, "TAIL-SHOULD-NOT-APPEAR")
}

func TestTruncateRecord_CountsCharactersNotBytes(t *testing.T) {
	head := strings.Repeat("é", MaxRecordChars)
	record := head + "ü"

	truncated := TruncateRecord(record)

	assert.Equal(t, head+TruncationNote, truncated)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, head, TruncateRecord(head))
}

func TestAnalysisPrompt_HasFourPoints(t *testing.T) {
	for _, point := range []string{
		"1. Summary of their current health",
		"2. Any patterns, risks, or trends noticed",
		"3. Recommendations or lifestyle improvements",
		"4. Questions the patient should ask their doctor",
	} {
		assert.Contains(t, AnalysisPrompt, point)
	}
}
