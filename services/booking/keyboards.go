package booking

import "oselya/models"

// Action vocabulary shared with the chat transport.
const (
	ActionCalculatePrice  = "calculate_price"
	ActionBookCleaning    = "book_cleaning"
	ActionServiceType     = "cleaning_type"  // cleaning_type:<maintenance|deep|post_renovation>
	ActionPropertyType    = "property_type"  // property_type:<apartment|house>
	ActionSelectDate      = "select_date"    // select_date:<2006-01-02>
	ActionSelectTime      = "select_time"    // select_time:<15:04>
	ActionNoSlotsAvail    = "no_slots_available"
	ActionNoAvailableDays = "no_available_days"
)

func startKeyboard() [][]models.Button {
	return [][]models.Button{
		{{Text: "Розрахувати вартість", Action: ActionCalculatePrice}},
		{{Text: "Забронювати клінінг", Action: ActionBookCleaning}},
	}
}

func serviceTypeKeyboard() [][]models.Button {
	return [][]models.Button{
		{{Text: ServiceTypeName(models.ServiceMaintenance), Action: ActionServiceType + ":maintenance"}},
		{{Text: ServiceTypeName(models.ServiceDeep), Action: ActionServiceType + ":deep"}},
		{{Text: ServiceTypeName(models.ServicePostRenovation), Action: ActionServiceType + ":post_renovation"}},
	}
}

func propertyTypeKeyboard() [][]models.Button {
	return [][]models.Button{
		{
			{Text: PropertyTypeName(models.PropertyApartment), Action: ActionPropertyType + ":apartment"},
			{Text: PropertyTypeName(models.PropertyHouse), Action: ActionPropertyType + ":house"},
		},
	}
}

func bookCleaningKeyboard() [][]models.Button {
	return [][]models.Button{
		{{Text: "Забронювати клінінг", Action: ActionBookCleaning}},
	}
}

func dateKeyboard(days []models.DayOption) [][]models.Button {
	if len(days) == 0 {
		return [][]models.Button{
			{{Text: "Немає доступних днів", Action: ActionNoAvailableDays}},
		}
	}
	rows := make([][]models.Button, 0, len(days))
	for _, d := range days {
		rows = append(rows, []models.Button{
			{Text: d.Label, Action: ActionSelectDate + ":" + d.Date},
		})
	}
	return rows
}

func timeKeyboard(slots []models.TimeSlot) [][]models.Button {
	if len(slots) == 0 {
		return [][]models.Button{
			{{Text: "Немає вільних слотів", Action: ActionNoSlotsAvail}},
		}
	}
	// Two slots per row.
	var rows [][]models.Button
	var row []models.Button
	for _, s := range slots {
		row = append(row, models.Button{Text: s.Label, Action: ActionSelectTime + ":" + s.Label})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
