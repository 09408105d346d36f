package site

import (
	"time"

	"github.com/headsrooms/PlaywrightING/internal/listing"
	"github.com/headsrooms/PlaywrightING/internal/transactions"
)

// Selectors locate the controls of the banking site.
type Selectors struct {
	SetupCookies    string
	CloseCookies    string
	IDNumber        string
	BirthdayDay     string
	BirthdayMonth   string
	BirthdayYear    string
	Next            string
	PinPad          string
	PinPadPositions string
	LoggedIn        string
	Logout          string
	LogoutClose     string
	MyProducts      string
	OverallPosition string
	NormalAccounts  string
	SavingsAccounts string
	Transactions    transactions.Selectors
}

// DefaultSelectors match the current markup of the site.
var DefaultSelectors = Selectors{
	SetupCookies:    "#configurar",
	CloseCookies:    ".close_btn_thick",
	IDNumber:        "#ing-uic-native-input_0",
	BirthdayDay:     "#input_day",
	BirthdayMonth:   "#input_month",
	BirthdayYear:    "#input_year",
	Next:            ".c-btn",
	PinPad:          ".c-pinpad",
	PinPadPositions: ".c-pinpad__secret-positions",
	LoggedIn:        ".grid-group-header-movements",
	Logout:          ".basic-logout-btn",
	LogoutClose:     ".ico-close",
	MyProducts:      "li.basic-main-bar-menus-list-item:nth-child(2) > i:nth-child(1)",
	OverallPosition: ".g-overall-position-amount",
	NormalAccounts:  "div.basic-one-half:nth-child(1) > div:nth-child(1) > div:nth-child(1) > div:nth-child(2)",
	SavingsAccounts: ".basic-one-hundred > div:nth-child(1) > div:nth-child(2) > div:nth-child(1) > div:nth-child(1) > div:nth-child(1)",
	Transactions: transactions.Selectors{
		ShowMore:              "td.txt-c:nth-child(1) > span:nth-child(1)",
		PreviousMonth:         ".navigate-back",
		DisabledPreviousMonth: ".is-disabled.navigate-back",
		Table:                 ".c-basic-grid > div:nth-child(1)",
		AlternativeTable:      ".data-grid > div:nth-child(1)",
		DateNavigator:         ".date-navigator-label",
		ThisMonth:             ".combo-box-options > ul:nth-child(1) > li:nth-child(2) > a:nth-child(1)",
		PhoneCheckText:        "es necesario que valides esta operación",
	},
}

// DefaultSentinels are the marker tokens of the product listing.
var DefaultSentinels = listing.Sentinels{
	Account:   "Cuenta",
	Card:      "Tarjeta",
	Activated: "Activada",
}

// DefaultFormat is how the transaction view renders its table.
var DefaultFormat = transactions.TableFormat{
	DateColumn: "Fecha",
	DateLayout: "02/01/2006",
	DayWords:   []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo", "Ayer", "Hoy"},
}

const (
	DefaultBaseURL       = "https://ing.ingdirect.es/app-login/"
	DefaultActionTimeout = 30 * time.Second
	DefaultProbeTimeout  = 3 * time.Second
)
