package intent

import "github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"

type Example struct {
	Text   string
	Intent types.IntentType
}

// DefaultExamples is the labelled set the centroids are built from.
var DefaultExamples = []Example{
	{"recommend some exercises", types.IntentRecommendActivity},
	{"what activities can I do", types.IntentRecommendActivity},
	{"suggest activity for seniors", types.IntentRecommendActivity},
	{"give me an exercise recommendation", types.IntentRecommendActivity},
	{"which activity is suitable for me", types.IntentRecommendActivity},
	{"any suggestions for physical activity", types.IntentRecommendActivity},
	{"can you recommend a workout", types.IntentRecommendActivity},
	{"suggest me something to do", types.IntentRecommendActivity},
	{"activities for elderly", types.IntentRecommendActivity},

	{"what is normal blood pressure", types.IntentHealthQA},
	{"tell me about diabetes", types.IntentHealthQA},
	{"how to lower heart rate", types.IntentHealthQA},
	{"diet for elderly people", types.IntentHealthQA},
	{"what foods should seniors avoid", types.IntentHealthQA},
	{"how can I manage hypertension", types.IntentHealthQA},
	{"what are symptoms of high cholesterol", types.IntentHealthQA},
	{"is walking good for health", types.IntentHealthQA},
	{"exercise for diabetes", types.IntentHealthQA},
	{"how to improve blood oxygen", types.IntentHealthQA},

	{"hello", types.IntentChitchat},
	{"hi there", types.IntentChitchat},
	{"how are you", types.IntentChitchat},
	{"tell me a joke", types.IntentChitchat},
	{"thank you", types.IntentChitchat},
	{"who are you", types.IntentChitchat},
	{"goodbye", types.IntentChitchat},
	{"nice to meet you", types.IntentChitchat},
	{"what's your name", types.IntentChitchat},
	{"see you later", types.IntentChitchat},
}
