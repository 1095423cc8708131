package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

func entryPrompt(text string, categories []string) string {
	return fmt.Sprintf(`Você é um assistente financeiro. Extraia os dados da transação descrita na frase: %q.
Responda somente com um objeto JSON válido, sem markdown, no formato:
{
  "description": "descrição curta e clara",
  "amount": número com ponto como separador decimal,
  "type": "income" ou "expense" (use "expense" se não estiver claro),
  "category": uma destas categorias: %s (escolha a mais adequada ou "Outros")
}`, text, strings.Join(categories, ", "))
}

func advicePrompt(snapshot Snapshot, history []Message) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	turns, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}

	return fmt.Sprintf(`Você é um consultor financeiro direto e objetivo.
Dados atuais: %s
Histórico: %s

Responda apenas o que foi perguntado, em no máximo duas ou três frases, usando somente os dados fornecidos.`, data, turns), nil
}
