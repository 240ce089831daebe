package booking

import "oselya/models"

// User-facing texts, Ukrainian.
const (
	textWelcome = "Вас вітає клінінгова компанія Чиста Оселя! \n\nОберіть опцію:"

	textChooseServiceType  = "Оберіть тип прибирання:"
	textChoosePropertyType = "Оберіть тип житла:"
	textEnterArea          = "Введіть площу вашого житла у м² (наприклад: 50 або 75.5):"
	textChooseDate         = "📅 Оберіть дату для бронювання:"
	textEnterAddress       = "📍 Введіть адресу для прибирання або поділіться локацією:"

	textAreaNotANumber  = "❌ Будь ласка, введіть коректне число (наприклад: 50 або 75.5):"
	textAreaNotPositive = "❌ Площа повинна бути більше 0. Будь ласка, введіть коректне значення:"
	textAddressTooShort = "❌ Адреса занадто коротка. Будь ласка, введіть повну адресу:"
	textBadDate         = "❌ Помилка формату дати. Спробуйте ще раз."
	textStaleSlot       = "❌ Обраний час вже зайнято. Будь ласка, оберіть інший:"

	textNoSlots = "❌ На жаль, на обрану дату немає доступних часових слотів.\n\n" +
		"Будь ласка, оберіть іншу дату."
	textNoDays = "❌ На жаль, на найближчі дні немає доступних слотів для бронювання.\n\n" +
		"Будь ласка, спробуйте пізніше або зв'яжіться з нами безпосередньо."

	textGenericError = "❌ Виникла помилка. Спробуйте ще раз."
	textStateLost    = "❌ Помилка: дані не збережені. Почніть спочатку."

	textAddressSaved  = "✅ Адресу збережено!\n\nОбробляю замовлення..."
	textLocationSaved = "✅ Локацію отримано!"

	textBookingsHeader = "📋 Ваші бронювання:"
	textNoBookings     = "У вас немає активних бронювань."
)

// ServiceTypeName returns the display name for a service type, falling
// back to the raw value.
func ServiceTypeName(s models.ServiceType) string {
	if n, ok := models.ServiceTypeNames[s]; ok {
		return n
	}
	return string(s)
}

// PropertyTypeName returns the display name for a property type.
func PropertyTypeName(p models.PropertyType) string {
	if n, ok := models.PropertyTypeNames[p]; ok {
		return n
	}
	return string(p)
}
