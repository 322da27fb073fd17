package models

// MessageType identifies an operator-managed template
type MessageType string

const (
	MessageStart                  MessageType = "start"
	MessageAbout                  MessageType = "about"
	MessageSupport                MessageType = "support"
	MessageCourses                MessageType = "courses"
	MessageContact                MessageType = "contact"
	MessageLocation               MessageType = "location"
	MessageAml                    MessageType = "aml"
	MessageCityex24Question       MessageType = "cityex24_question"
	MessageCityex24ContactRequest MessageType = "cityex24_contact_request"
	MessageCityex24Confirmation   MessageType = "cityex24_confirmation"
)

// TemplateNotConfigured is returned to API clients when a template is unset
const TemplateNotConfigured = "Сообщение не настроено"

// MessageTypes lists every template key in display order
var MessageTypes = []MessageType{
	MessageStart,
	MessageAbout,
	MessageSupport,
	MessageCourses,
	MessageContact,
	MessageLocation,
	MessageAml,
	MessageCityex24Question,
	MessageCityex24ContactRequest,
	MessageCityex24Confirmation,
}

var messageTypeLabels = map[MessageType]string{
	MessageStart:                  "Стартовое сообщение",
	MessageAbout:                  "О нас",
	MessageSupport:                "Поддержка",
	MessageCourses:                "Курсы",
	MessageContact:                "Связаться с нами",
	MessageLocation:               "Как нас найти",
	MessageAml:                    "AML Проверка",
	MessageCityex24Question:       "Cityex24 - Вопрос о стране",
	MessageCityex24ContactRequest: "Cityex24 - Запрос контакта",
	MessageCityex24Confirmation:   "Cityex24 - Подтверждение заявки",
}

// Chat-side fallbacks used when an operator has not configured a template
var messageTypeFallbacks = map[MessageType]string{
	MessageStart:                  "Добро пожаловать в City Exchange! Выберите нужный раздел:",
	MessageAbout:                  "Информация о нас скоро будет добавлена.",
	MessageSupport:                "Информация о поддержке скоро будет добавлена.",
	MessageCourses:                "Курсы обмена скоро будут добавлены.",
	MessageContact:                "Контактная информация скоро будет добавлена.",
	MessageLocation:               "Информация о местоположении скоро будет добавлена.",
	MessageAml:                    "Информация об AML проверке скоро будет добавлена.",
	MessageCityex24Question:       "В какую страну нужно перевести деньги? По международным переводам работаем с 08:00 до 20:00 по МСК",
	MessageCityex24ContactRequest: "Укажите контакты для обратной связи",
	MessageCityex24Confirmation:   "Ваша заявка принята, скоро менеджер свяжется с вами",
}

func (m MessageType) Valid() bool {
	_, ok := messageTypeLabels[m]
	return ok
}

func (m MessageType) Label() string {
	if label, ok := messageTypeLabels[m]; ok {
		return label
	}
	return string(m)
}

// Fallback returns the chat text shown when the template is missing
func (m MessageType) Fallback() string {
	if text, ok := messageTypeFallbacks[m]; ok {
		return text
	}
	return TemplateNotConfigured
}

// Country is a supported transfer destination
type Country string

const (
	CountryKyrgyzstan  Country = "kyrgyzstan"
	CountryUzbekistan  Country = "uzbekistan"
	CountryUae         Country = "uae"
	CountryTurkey      Country = "turkey"
	CountrySaudiArabia Country = "saudi_arabia"
)

// Countries lists the supported destinations in menu order
var Countries = []Country{
	CountryKyrgyzstan,
	CountryUzbekistan,
	CountryUae,
	CountryTurkey,
	CountrySaudiArabia,
}

var countryLabels = map[Country]string{
	CountryKyrgyzstan:  "🇰🇬 Кыргызстан",
	CountryUzbekistan:  "🇺🇿 Узбекистан",
	CountryUae:         "🇦🇪 ОАЭ",
	CountryTurkey:      "🇹🇷 Турция",
	CountrySaudiArabia: "🇸🇦 Саудовская Аравия",
}

func (c Country) Valid() bool {
	_, ok := countryLabels[c]
	return ok
}

// Label returns the country name with its flag
func (c Country) Label() string {
	if label, ok := countryLabels[c]; ok {
		return label
	}
	return string(c)
}

// TransferStatus is the operator-driven lifecycle of a transfer request
type TransferStatus string

const (
	TransferStatusNew        TransferStatus = "new"
	TransferStatusInProgress TransferStatus = "in_progress"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

var transferStatusLabels = map[TransferStatus]string{
	TransferStatusNew:        "Новая",
	TransferStatusInProgress: "В обработке",
	TransferStatusCompleted:  "Завершена",
	TransferStatusCancelled:  "Отменена",
}

func (s TransferStatus) Valid() bool {
	_, ok := transferStatusLabels[s]
	return ok
}

func (s TransferStatus) Label() string {
	if label, ok := transferStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// OrderType is the direction of an exchange order
type OrderType string

const (
	OrderTypeBuy  OrderType = "buy"
	OrderTypeSell OrderType = "sell"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

func (t OrderType) Label() string {
	switch t {
	case OrderTypeBuy:
		return "Покупка"
	case OrderTypeSell:
		return "Продажа"
	}
	return string(t)
}

// SourceCurrency is what the customer pays: roubles when buying, USDT when selling
func (t OrderType) SourceCurrency() string {
	if t == OrderTypeBuy {
		return "RUB"
	}
	return "USDT"
}

// TargetCurrency is what the customer receives
func (t OrderType) TargetCurrency() string {
	if t == OrderTypeBuy {
		return "USDT"
	}
	return "RUB"
}

// OrderStatus is the lifecycle of an exchange order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusProcessed OrderStatus = "processed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:   "Ожидание",
	OrderStatusProcessed: "Обработано",
	OrderStatusCancelled: "Отменено",
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Monetary precision for stored values
const (
	AmountPlaces = 2
	RatePlaces   = 4

	// Total significant digits, matching NUMERIC(20,2) and NUMERIC(10,4)
	AmountDigits = 20
	RateDigits   = 10
)
