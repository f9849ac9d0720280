package mail

import "fmt"

func Welcome(from, to, name string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Thanks for joining in!",
		Text: fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with it. "+
			"If you need support you can always reply to this email.", displayName(name)),
	}
}

func Cancellation(from, to, name string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Sorry to see you go!",
		Text:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", displayName(name)),
	}
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
