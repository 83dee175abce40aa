package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bustracker/internal/gemini"
	"bustracker/internal/response"
)

const damageInspectionPrompt = `You are a home damage inspection expert.
IMPORTANT:
1. Ignore all previous conversations, images, or instructions.
2. Evaluate ONLY the current uploaded image.
3. If the image does NOT contain visible damage such as cracks, holes, leaks, stains, broken parts, rust, flooding, or structural defects:
   - Return the SAME JSON format, but set:
     - damage_type: "No visible damage detected"
     - severity: "None"
     - urgent_level: "None"
     - probable_causes: []
     - repair_steps: []
     - materials_needed: []
     - estimated_cost: "0"
     - And include a short message: "Please capture a clear photo of the damaged area so I can assist you."

ONLY output raw JSON. No markdown. No backticks.`

const damageFormatPrompt = `If there IS visible damage, analyze it and return JSON:

{
    "damage_type": "",
    "severity": "Low | Medium | High | Critical",
    "probable_causes": [],
    "repair_steps": [],
    "estimated_cost": "",
    "materials_needed": [],
    "urgent_level": ""
}

Consider only the current image and use Philippine context.`

type aiSuggestionInput struct {
	OverviewData   map[string]interface{} `json:"overviewData"`
	WeeklySpending []float64              `json:"weeklySpending"`
	WeeklyLabels   []string               `json:"weeklyLabels"`
}

// SmartController fronts the generative-AI features. Every failure mode
// degrades to a canned text so the client always gets a usable answer.
type SmartController struct {
	ai *gemini.Client
}

func NewSmartController(ai *gemini.Client) *SmartController {
	return &SmartController{ai: ai}
}

func (s *SmartController) AISuggestion(c *gin.Context) {
	var input aiSuggestionInput
	_ = c.ShouldBindJSON(&input)

	text, err := s.ai.GenerateText(buildSpendingPrompt(input))
	switch {
	case err == nil:
	case errors.Is(err, gemini.ErrRequestFailed):
		text = "Gemini API request failed."
	case errors.Is(err, gemini.ErrNoContent):
		text = "No insight could be generated."
	default:
		text = "Unable to generate AI suggestion at the moment."
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// AnalyzeDamage relays the model's JSON verdict for an uploaded photo.
func (s *SmartController) AnalyzeDamage(c *gin.Context) {
	var input struct {
		ImageBase64 string `json:"image_base64"`
	}
	_ = c.ShouldBindJSON(&input)

	if input.ImageBase64 == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Image required"})
		return
	}

	raw, err := s.ai.GenerateRaw([]gemini.Part{
		{Text: damageInspectionPrompt},
		{InlineData: &gemini.InlineData{MimeType: "image/jpeg", Data: input.ImageBase64}},
		{Text: damageFormatPrompt},
	})
	if err != nil {
		response.ServerError(c, "Failed to analyze image", err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

func buildSpendingPrompt(in aiSuggestionInput) string {
	var b strings.Builder

	b.WriteString("You are a friendly, casual finance assistant. Analyze the user's spending data only. ")
	b.WriteString("Do NOT invent reasons or give generic tips. Base your insights strictly on the numbers provided. ")
	b.WriteString("Return exactly 3-5 bullet points, each starting with '•'. ")
	b.WriteString("Keep it short, clear, and easy to follow, like talking to a friend.\n\n")

	b.WriteString("Overview (Budget Left is for the month):\n")
	fmt.Fprintf(&b, "Total Spent: ₱%v\n", overviewValue(in.OverviewData, "totalSpent", 0))
	fmt.Fprintf(&b, "Today Spent: ₱%v\n", overviewValue(in.OverviewData, "todaySpent", 0))
	fmt.Fprintf(&b, "Top Category: %v\n", overviewValue(in.OverviewData, "topCategory", "-"))
	fmt.Fprintf(&b, "Daily Avg: ₱%v\n", overviewValue(in.OverviewData, "dailyAvg", 0))
	fmt.Fprintf(&b, "Budget Left: ₱%v\n\n", overviewValue(in.OverviewData, "budgetLeft", 0))

	b.WriteString("Weekly Spending:\n")
	for i, label := range in.WeeklyLabels {
		var amount float64
		if i < len(in.WeeklySpending) {
			amount = in.WeeklySpending[i]
		}
		fmt.Fprintf(&b, "%s: ₱%v\n", label, amount)
	}
	b.WriteString("\n")

	b.WriteString("Compare today's spending with yesterday's and highlight any savings or overspending. ")
	b.WriteString("Also mention how today's spending affects the monthly budget left. ")
	b.WriteString("Provide 3-5 actionable bullet points the user can follow. ")
	b.WriteString("Always start each bullet with '•' and ensure each point directly relates to the data above. ")
	b.WriteString("End with a friendly closing like: 'This is all I found. Goodbye!'.")

	return b.String()
}

func overviewValue(data map[string]interface{}, key string, fallback interface{}) interface{} {
	if v, ok := data[key]; ok && v != nil {
		return v
	}
	return fallback
}
