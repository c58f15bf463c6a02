package prompt

import "fmt"

const summaryPrompt = `You summarise internal business documents for collaboration between teams.

Summarise the document below in 3 to 5 short points, one per line.

Cover the purpose of the document, the key scope or requirements, important deadlines or timelines, and assumptions, constraints or risks.

Do not copy sentences verbatim. Do not include unnecessary details.

Document (%s):
%s`

// SummaryTemperature keeps summaries close to the source.
const SummaryTemperature = 0.2

// Summary renders the request asking for a short synopsis of a document.
func Summary(fileName, content string) string {
	return fmt.Sprintf(summaryPrompt, fileName, content)
}
