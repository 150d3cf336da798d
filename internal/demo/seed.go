// Package demo holds the sample records substituted into console views when
// demo mode is enabled and a fetch fails. Demo mode is an explicit config
// flag, off by default; production views degrade to empty lists.
package demo

import (
	"time"

	"github.com/lankaspa/portal/internal/model"
)

func seedTime() model.Timestamps {
	t := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	return model.Timestamps{CreatedAt: t, UpdatedAt: t}
}

// Spas returns a handful of plausible member facilities.
func Spas() []model.Spa {
	return []model.Spa{
		{
			ID: "spa-demo-1", Name: "Serenity Ayurveda Retreat", OwnerName: "Nimal Perera",
			OwnerEmail: "nimal@serenity.example", OwnerPhone: "+94771234500",
			Address: "12 Temple Road", City: "Kandy", Category: "ayurveda",
			Status: model.SpaStatusApproved, Timestamps: seedTime(),
		},
		{
			ID: "spa-demo-2", Name: "Ocean Breeze Wellness", OwnerName: "Kumari Silva",
			OwnerEmail: "kumari@oceanbreeze.example", OwnerPhone: "+94771234501",
			Address: "88 Galle Road", City: "Colombo", Category: "wellness",
			Status: model.SpaStatusPending, Timestamps: seedTime(),
		},
		{
			ID: "spa-demo-3", Name: "Lotus Garden Spa", OwnerName: "Ruwan Fernando",
			OwnerEmail: "ruwan@lotusgarden.example", OwnerPhone: "+94771234502",
			Address: "5 Lake View", City: "Negombo", Category: "thermal",
			Status: model.SpaStatusApproved, Timestamps: seedTime(),
		},
	}
}

// Therapists returns sample practitioner records.
func Therapists() []model.Therapist {
	return []model.Therapist{
		{
			ID: "th-demo-1", FullName: "Sanduni Jayawardena", NIC: "925634781V",
			Email: "sanduni@example.com", Phone: "+94712345670",
			SpaID: "spa-demo-1", SpaName: "Serenity Ayurveda Retreat",
			Status: model.TherapistStatusApproved, Timestamps: seedTime(),
		},
		{
			ID: "th-demo-2", FullName: "Chamara Bandara", NIC: "881234567V",
			Email: "chamara@example.com", Phone: "+94712345671",
			SpaID: "spa-demo-2", SpaName: "Ocean Breeze Wellness",
			Status: model.TherapistStatusPending, Timestamps: seedTime(),
		},
	}
}
