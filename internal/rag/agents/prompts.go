package agents

const summaryInstruction = `You are a contract summarisation specialist.
Create a bullet-point executive summary covering:
- Parties involved
- Scope of work/purpose
- Contract term/duration
- Financial terms
- Key risks

Use ONLY bullet points, be concise and factual.`

const qaInstruction = `You are a contract Q&A specialist. Answer questions based only on the provided contract context.
Every factual claim must cite its source using the chunk id in square brackets, for example [chunk_3].
If the context does not contain the answer, say so clearly instead of guessing.`

const riskInstruction = `You are a contract risk assessment specialist.
Analyze the provided clauses and identify risks. For each risk give:
- Clause ID: the chunk id of the clause
- Risk category: financial, legal, operational or compliance
- Severity: exactly one of LOW, MEDIUM, HIGH, CRITICAL
- Description: what the risk is
- Mitigation: how to reduce it

Focus on compliance and commercial risks.`

const (
	noTextToSummarize = "The document contains no text to summarize."
	cannotAnswer      = "I could not find information in this contract to answer the question."
	noRisksFound      = "No significant risks identified in the contract."
	noClausesFormat   = "No clauses found matching '%s'."
)

// riskKeywords are matched case-insensitively against chunk content
var riskKeywords = []string{
	"penalty", "terminate", "breach", "default", "liability",
	"indemnify", "force majeure", "confidential", "non-compete",
	"intellectual property", "warranty", "guarantee", "damages",
}
