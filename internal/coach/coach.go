// Package coach produces Greenie's chat replies.
package coach

import "strings"

const Welcome = "Hey there 🌍! I'm Greenie, your carbon-cutting companion! To get started, tell me one thing you did today — even something small like walking instead of driving or skipping plastic. Ready?"

const DailyTip = "🌱 Daily tip: group your errands into one trip, switch off standby devices before bed, and try one plant-based meal today."

const fallback = "That's interesting! As your eco-coach, I'm here to help you make sustainable choices. Whether it's reducing your carbon footprint, building green habits, or staying motivated, I've got tips and encouragement for you! 🌱 What sustainability goal are you working on?"

type rule struct {
	keywords []string
	reply    string
}

// rules are checked in order; the first rule with a matching keyword wins.
var rules = []rule{
	{
		keywords: []string{"tip", "advice"},
		reply:    "Here are some quick eco-friendly tips: 🚴‍♀️ Choose biking over driving for short trips, 🥗 Try meatless Monday, 💡 Switch to LED bulbs, and ♻️ always recycle! What area would you like to improve most?",
	},
	{
		keywords: []string{"carbon", "footprint"},
		reply:    "Your current carbon footprint looks good! To reduce it further, consider: reducing meat consumption, using public transport, and being mindful of energy usage. Small changes add up to make a big impact! 🌍",
	},
	{
		keywords: []string{"help", "how"},
		reply:    "I'm here to help you on your sustainability journey! I can provide eco-tips, help track your progress, suggest improvements, and answer questions about reducing your carbon footprint. What would you like to know?",
	},
	{
		keywords: []string{"plant", "grow"},
		reply:    "Your plant is growing beautifully! 🌱 Keep completing your daily habits to help it thrive. Each habit you complete earns points that help your plant grow from a seed to a mighty tree!",
	},
	{
		keywords: []string{"streak", "habit"},
		reply:    "Great job on maintaining your habits! 🔥 Consistency is key to creating lasting change. Keep up your streak by focusing on one habit at a time, and don't forget to celebrate your progress!",
	},
	{
		keywords: []string{"errand", "trip", "efficient"},
		reply:    "🚗 Why it matters: Short, separate car trips burn more fuel because engines use the most fuel when cold. By grouping tasks (like grocery shopping, pharmacy, and picking someone up), your car runs more efficiently and produces fewer emissions.\n\n🌍 Carbon savings: You can cut 1–2 kg of CO₂ in a single day just by optimizing your driving pattern!\n\nWould you like some more green advice to make your day Greenie-r?",
	},
}

// Reply returns the canned response for a user message.
func Reply(input string) string {
	text := strings.ToLower(input)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.reply
			}
		}
	}
	return fallback
}
