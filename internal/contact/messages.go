package contact

import "golang.org/x/text/language"

var supported = []language.Tag{
	language.BrazilianPortuguese, // default
	language.English,
}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[messageKey]string{
	language.BrazilianPortuguese: {
		msgNameRequired:    "Informe seu nome.",
		msgNameShort:       "O nome deve ter pelo menos 2 caracteres.",
		msgEmailRequired:   "Informe seu e-mail.",
		msgEmailInvalid:    "Informe um e-mail válido.",
		msgSubjectRequired: "Informe o assunto.",
		msgMessageRequired: "Escreva sua mensagem.",
		msgMessageShort:    "A mensagem deve ter pelo menos 10 caracteres.",
		msgAcknowledged:    "Mensagem enviada! Entraremos em contato em breve.",
	},
	language.English: {
		msgNameRequired:    "Please enter your name.",
		msgNameShort:       "Name must be at least 2 characters.",
		msgEmailRequired:   "Please enter your email.",
		msgEmailInvalid:    "Please enter a valid email address.",
		msgSubjectRequired: "Please enter a subject.",
		msgMessageRequired: "Please write a message.",
		msgMessageShort:    "Message must be at least 10 characters.",
		msgAcknowledged:    "Message sent! We'll get back to you soon.",
	},
}

// MatchLanguage picks the best supported language for an Accept-Language
// header. When the header is missing, unparsable or names only unsupported
// languages, the given default (a BCP 47 tag) is used instead.
func MatchLanguage(acceptLanguage, fallback string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallbackTag(fallback)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallbackTag(fallback)
	}
	return supported[idx]
}

// fallbackTag maps the configured locale onto a supported tag; an unknown
// locale yields the first supported one.
func fallbackTag(fallback string) language.Tag {
	fb, err := language.Parse(fallback)
	if err != nil {
		return supported[0]
	}
	_, idx, _ := matcher.Match(fb)
	return supported[idx]
}

func catalogFor(lang language.Tag) map[messageKey]string {
	if cat, ok := catalogs[lang]; ok {
		return cat
	}
	_, idx, _ := matcher.Match(lang)
	return catalogs[supported[idx]]
}
