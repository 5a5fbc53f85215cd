package services

import (
	"github.com/nyaruka/phonenumbers"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/locale"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// Connections derives the contact line of a CV: location, email, phone,
// website, then social networks in the order the user listed them.
func Connections(cv entities.Curriculum, cat locale.Catalog) []entities.Connection {
	var out []entities.Connection

	if cv.Location != "" {
		out = append(out, entities.Connection{Icon: "location-dot", Placeholder: cv.Location})
	}
	if cv.Email != "" {
		out = append(out, entities.Connection{
			Icon:        "envelope",
			URL:         "mailto:" + cv.Email,
			CleanURL:    cv.Email,
			Placeholder: cv.Email,
		})
	}
	if cv.Phone != "" {
		url, display := phoneLink(cv.Phone, cat.PhoneNumberFormat)
		out = append(out, entities.Connection{
			Icon:        "phone",
			URL:         url,
			CleanURL:    display,
			Placeholder: display,
		})
	}
	if cv.Website != "" {
		clean := values.CleanURL(cv.Website)
		out = append(out, entities.Connection{
			Icon:        "link",
			URL:         cv.Website,
			CleanURL:    clean,
			Placeholder: clean,
		})
	}
	for _, sn := range cv.SocialNetworks {
		url := sn.URL()
		out = append(out, entities.Connection{
			Icon:        sn.Network.Icon(),
			URL:         url,
			CleanURL:    values.CleanURL(url),
			Placeholder: values.UsernamePlaceholder(sn.Network, sn.Username),
		})
	}
	return out
}

// phoneLink returns the tel: URL and the display form of a phone number.
// Unparseable numbers are shown as written.
func phoneLink(phone string, format locale.PhoneFormat) (url, display string) {
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return "tel:" + phone, phone
	}

	style := phonenumbers.NATIONAL
	switch format {
	case locale.PhoneInternational:
		style = phonenumbers.INTERNATIONAL
	case locale.PhoneE164:
		style = phonenumbers.E164
	}
	return phonenumbers.Format(num, phonenumbers.RFC3966), phonenumbers.Format(num, style)
}
