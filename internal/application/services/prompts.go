package services

import (
	"fmt"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
)

const (
	// MaxRecordChars is the number of record characters sent to the model.
	MaxRecordChars = 5000

	// TruncationNote is appended to records cut at MaxRecordChars.
	TruncationNote = "\n\n[Note: Record truncated for AI analysis due to size limit.]"

	// Temperature is the sampling temperature for every request.
	Temperature = 0.7

	// MaxOutputTokens bounds the length of generated answers.
	MaxOutputTokens = 1200
)

const systemInstruction = `You are an intelligent health assistant for the Ayu-Chain AI platform.

Your role:
1. Analyze patient health records carefully
2. Answer questions accurately based on the available data
3. Identify potential risks or patterns in health data
4. Be empathetic, simple, and clear in communication
5. If data is missing or unclear, state that and suggest consulting a doctor
`

// AnalysisPrompt replaces the user question for proactive analysis.
const AnalysisPrompt = `Please analyze this patient's health record and provide:
1. Summary of their current health
2. Any patterns, risks, or trends noticed
3. Recommendations or lifestyle improvements
4. Questions the patient should ask their doctor
`

const userMessageTemplate = `
PATIENT HEALTH RECORDS:
%s

PATIENT QUESTION:
%s

Please analyze the records and answer the patient's question accurately and clearly.
`

// BuildPrompt assembles the inference request for a record and a question.
func BuildPrompt(recordText, question string) *entities.PromptRequest {
	return &entities.PromptRequest{
		SystemInstruction: systemInstruction,
		UserMessage:       fmt.Sprintf(userMessageTemplate, TruncateRecord(recordText), question),
		Temperature:       Temperature,
		MaxOutputTokens:   MaxOutputTokens,
	}
}

// TruncateRecord limits text to MaxRecordChars characters, appending
// TruncationNote when anything was cut.
func TruncateRecord(text string) string {
	count := 0
	for i := range text {
		if count == MaxRecordChars {
			return text[:i] + TruncationNote
		}
		count++
	}
	return text
}
