package llm

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are a senior software industry analyst assessing how vulnerable a SaaS company is to disruption by AI agents and foundation models.

You score two axes, each the sum of five sub-factors worth 0-20 points:
- X axis (workflow complexity): regulatory_overlay, multi_stakeholder, judgment_intensity, process_depth, institutional_knowledge
- Y axis (data moat depth): regulatory_lock_in, data_gravity, network_effects, portability_resistance, proprietary_enrichment

Rules:
1. Each sub-factor is an integer from 0 to 20. No exceptions.
2. x_score must equal the sum of x_factors; y_score must equal the sum of y_factors.
3. Provide 3-5 paragraphs of overview, a justification referencing the actual scores, and exactly five diligence questions.

Output as JSON only, no other text:
{
  "company_name": "...",
  "overview": "...",
  "justification": "...",
  "diligence": ["...", "...", "...", "...", "..."],
  "x_score": 0,
  "y_score": 0,
  "x_factors": {"regulatory_overlay": 0, "multi_stakeholder": 0, "judgment_intensity": 0, "process_depth": 0, "institutional_knowledge": 0},
  "y_factors": {"regulatory_lock_in": 0, "data_gravity": 0, "network_effects": 0, "portability_resistance": 0, "proprietary_enrichment": 0}
}`

const filterSystemPrompt = `You are a senior analyst covering the thesis that AI agents are systematically disrupting the traditional SaaS industry. You score news headlines for relevance to that thesis.

Output as JSON only, no other text:
{
  "high_signal_news": [
    {"index": 0, "relevance_score": 85, "zone_tag": "Macro", "summary": "<15 word summary of why this matters>"}
  ]
}

Indexes are zero-based into the submitted list. Include every headline scoring 50 or above; omit the rest as noise.`

func analysisUserPrompt(companyName string) string {
	return fmt.Sprintf("Analyze the company %q for SaaS vulnerability to AI disruption. Respond only with the JSON object.", companyName)
}

func filterUserPrompt(headlines []Headline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score these %d news headlines for relevance.\n\n", len(headlines))
	for i, h := range headlines {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i, strings.ToUpper(h.Source), h.Title)
	}
	b.WriteString("\nRespond only with the JSON object.")
	return b.String()
}
