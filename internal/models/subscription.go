// Package models содержит доменные структуры, описывающие подписку,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Периодичность списаний по подписке.
const (
	CycleWeekly  = "Weekly"
	CycleMonthly = "Monthly"
	CycleYearly  = "Yearly"
)

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище. Каждая запись принадлежит
// ровно одному пользователю и видна только ему.
type Subscription struct {
	ID              string     `json:"id"`                          // Уникальный идентификатор записи
	UserUID         string     `json:"-"`                           // Владелец записи
	Name            string     `json:"name"`                        // Название сервиса подписки
	Category        string     `json:"category"`                    // Категория (OTT, музыка и т.п.)
	Price           float64    `json:"price"`                       // Цена за период, неотрицательная
	BillingCycle    string     `json:"billing_cycle"`               // Weekly, Monthly или Yearly
	StartDate       time.Time  `json:"start_date"`                  // Дата начала подписки
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"` // Дата следующего списания
	Notes           string     `json:"notes,omitempty"`             // Произвольные заметки
	IsActive        bool       `json:"is_active"`                   // Признак активности
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription. Необязательные поля —
// указатели, чтобы отличать "не передано" от нулевого значения.
type DummySubscription struct {
	Name            string     `json:"name" validate:"required"`                                            // Название сервиса
	Category        string     `json:"category" validate:"required"`                                        // Категория
	Price           float64    `json:"price" validate:"gte=0"`                                              // Цена (>= 0)
	BillingCycle    string     `json:"billing_cycle,omitempty" validate:"omitempty,oneof=Weekly Monthly Yearly"` // Периодичность
	StartDate       *time.Time `json:"start_date,omitempty"`                                                // Дата начала (по умолчанию сейчас)
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`                                         // Дата следующего списания
	Notes           string     `json:"notes,omitempty"`                                                     // Заметки
	IsActive        *bool      `json:"is_active,omitempty"`                                                 // Признак активности (по умолчанию true)
}
