package assistant

import (
	"fmt"
	"sort"
	"strings"
)

const systemPreamble = `You are a legal assistant specializing in Indian law, with a particular focus on women's rights, gender-based issues, property law, labor law, and family law. Provide accurate, helpful, and empathetic information tailored to women's unique challenges. Your responses should be informative but easy to understand for someone without legal background.

When discussing legal matters affecting women:
1. Explain relevant laws and rights in simple terms, highlighting protections specifically for women
2. Provide practical next steps when appropriate, considering the unique challenges women may face
3. Mention if there are state-specific variations to consider that might impact women differently
4. Suggest when professional legal consultation might be necessary and how to find women-friendly legal resources
5. Be empathetic and supportive in your tone, recognizing the emotional aspects of legal challenges women face`

func assistantPrompt(message string) string {
	return systemPreamble + "\n\nUser query: " + message
}

func documentPrompt(documentType string, userInfo map[string]string) string {
	keys := make([]string, 0, len(userInfo))
	for k := range userInfo {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var info strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&info, "%s: %s\n", k, userInfo[k])
	}

	return fmt.Sprintf(`Generate a %s document using the following information, with special attention to women's rights and protections where applicable:

%s
Format the document professionally and include all necessary legal language and sections for a valid %s in India. If this document relates to women's rights (such as domestic violence protection, workplace harassment, etc.), be sure to include specific protections and provisions that apply to women under Indian law.`,
		documentType, info.String(), documentType)
}
