package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/edgard/saansbot/internal/ai"
)

// Default values for configuration.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultProvider      = ProviderGemini
	DefaultTemperature   = 0.7
	DefaultAITimeout     = 2 * time.Minute
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	DefaultHTTPPort = 8080

	DefaultJournalRetention = 30 * 24 * time.Hour
)

// Default bot replies.
const (
	DefaultGreeting   = "Namaste! 🙏 Main Saans Saathi hoon, aapka saans aur phephdon ki sehat ka jaankari sahayak. Apni takleef (jaise khansi, saans phoolna) apne shabdon mein likhiye, main kuch sawaal poochunga aur aapko sahi jaankari dunga."
	DefaultEmptyReply = "Maaf kijiye, main aapki baat samajh nahi paaya. Kripya apni takleef thoda aur vistaar se likhiye."
	DefaultErrorReply = "Maaf kijiye, abhi ek technical error aa gaya hai. Kripya thodi der baad dobara koshish karein."
)

// defaultTasks lists maintenance tasks with their cron schedules (seconds field included).
var defaultTasks = map[string]TaskConfig{
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	"journal_prune":   {Enabled: true, Schedule: "0 30 4 * * *"},
	"journal_summary": {Enabled: true, Schedule: "0 0 9 * * *"},
}

// setDefaults registers default values for every configuration key so that
// viper can resolve environment overrides for them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("telegram.token", "")

	v.SetDefault("ai.provider", DefaultProvider)
	v.SetDefault("ai.system_instruction", ai.DefaultSystemInstruction)
	v.SetDefault("ai.temperature", DefaultTemperature)
	v.SetDefault("ai.timeout", DefaultAITimeout)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.base_url", "")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", DefaultOpenAIBaseURL)
	v.SetDefault("openai.model", DefaultOpenAIModel)

	v.SetDefault("http.port", DefaultHTTPPort)

	v.SetDefault("messages.greeting", DefaultGreeting)
	v.SetDefault("messages.empty_reply", DefaultEmptyReply)
	v.SetDefault("messages.error_reply", DefaultErrorReply)

	v.SetDefault("database.path", "")
	v.SetDefault("database.retention", DefaultJournalRetention)

	for name, task := range defaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}
}
