package telegram

// UI texts in English
const (
	stopText = "Subscriptions are permanent for now; there is no unsubscribe. " +
		"You can mute this chat in Telegram if the messages get noisy."
	hintText = "Commands:\n" +
		"/start — subscribe to daily contest updates\n" +
		"/contests — list every known contest"
	registrationErrText = "Registration error. Please try /start again later."
)
