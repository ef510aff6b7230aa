package model

// TypePatch carries only the fields a caller supplied.
type TypePatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (p TypePatch) Fields() map[string]any {
	f := map[string]any{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Color != nil {
		f["color"] = *p.Color
	}
	if p.Icon != nil {
		f["icon"] = *p.Icon
	}
	return f
}

func (p TypePatch) ApplyTo(t *AppointmentType) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Icon != nil {
		t.Icon = *p.Icon
	}
}

type AppointmentPatch struct {
	ClientName        *string  `json:"client_name"`
	PickupTime        *string  `json:"pickup_time"`
	PickupLocation    *string  `json:"pickup_location"`
	ArrivalTime       *string  `json:"arrival_time"`
	ArrivalLocation   *string  `json:"arrival_location"`
	FlightInfo        *string  `json:"flight_info"`
	LuggagePassengers *string  `json:"luggage_passengers"`
	OtherDetails      *string  `json:"other_details"`
	Amount            *float64 `json:"amount" validate:"omitnil,gte=0"`
	AppointmentTypeID *string  `json:"appointment_type_id"`
	Status            *string  `json:"status" validate:"omitnil,status"`
}

// Fields maps supplied values to their document keys. updated_at is not
// part of the patch; the caller stamps it.
func (p AppointmentPatch) Fields() map[string]any {
	f := map[string]any{}
	set := func(key string, v *string) {
		if v != nil {
			f[key] = *v
		}
	}
	set("client_name", p.ClientName)
	set("pickup_time", p.PickupTime)
	set("pickup_location", p.PickupLocation)
	set("arrival_time", p.ArrivalTime)
	set("arrival_location", p.ArrivalLocation)
	set("flight_info", p.FlightInfo)
	set("luggage_passengers", p.LuggagePassengers)
	set("other_details", p.OtherDetails)
	set("appointment_type_id", p.AppointmentTypeID)
	set("status", p.Status)
	if p.Amount != nil {
		f["amount"] = *p.Amount
	}
	return f
}

func (p AppointmentPatch) ApplyTo(a *Appointment) {
	merge := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	merge(&a.ClientName, p.ClientName)
	merge(&a.PickupTime, p.PickupTime)
	merge(&a.PickupLocation, p.PickupLocation)
	merge(&a.ArrivalTime, p.ArrivalTime)
	merge(&a.ArrivalLocation, p.ArrivalLocation)
	merge(&a.FlightInfo, p.FlightInfo)
	merge(&a.LuggagePassengers, p.LuggagePassengers)
	merge(&a.OtherDetails, p.OtherDetails)
	merge(&a.AppointmentTypeID, p.AppointmentTypeID)
	merge(&a.Status, p.Status)
	if p.Amount != nil {
		a.Amount = *p.Amount
	}
}
