package schema

import "github.com/PSilyDev/survease/internal/model"

// NormalizeAnswers maps a filled answer set to the wire answer format.
// Output order follows the question list, and output length always equals
// the question count: a list value is used as-is, a scalar is wrapped in a
// one-element list, and a missing value becomes an empty list.
func NormalizeAnswers(questions []model.Question, values map[string]interface{}) []model.QuestionAnswer {
	answers := make([]model.QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		answer := model.AnswerValues{}
		switch v := values[q.ID].(type) {
		case nil:
		case []interface{}:
			answer = append(answer, v...)
		case []string:
			for _, s := range v {
				answer = append(answer, s)
			}
		default:
			answer = append(answer, v)
		}
		answers = append(answers, model.QuestionAnswer{Question: q.Text, Answer: answer})
	}
	return answers
}
