package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spec-kit/green-campus/internal/domain"
)

// JSON shapes shared by the file store and the JSONB columns.

// recordTime is written as RFC 3339. On read it also accepts ISO 8601 values
// without a zone offset, as found in older data files; those are taken as UTC.
type recordTime time.Time

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t recordTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

func (t *recordTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = recordTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		*t = recordTime{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		*t = recordTime(parsed)
		return nil
	}
	for _, layout := range zonelessLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			*t = recordTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unsupported format", raw)
}

func (t recordTime) Time() time.Time {
	return time.Time(t)
}

type userRecord struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string     `json:"role"`
	CreatedAt recordTime `json:"created_at"`
}

type messageRecord struct {
	ID        string        `json:"_id"`
	UserName  string        `json:"user_name"`
	UserEmail string        `json:"user_email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	CreatedAt recordTime    `json:"created_at"`
	Replies   []replyRecord `json:"replies"`
}

type replyRecord struct {
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Timestamp recordTime `json:"timestamp"`
}

type metricRecord struct {
	Week     string  `json:"week"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

type dashboardRecord struct {
	EnergyData []metricRecord `json:"energyData"`
	WaterData  []metricRecord `json:"waterData"`
	WasteData  []metricRecord `json:"wasteData"`
}

func userToRecord(u *domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: recordTime(u.CreatedAt),
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Password:  r.Password,
		Role:      domain.Role(r.Role),
		CreatedAt: r.CreatedAt.Time(),
	}
}

func messageToRecord(m *domain.Message) messageRecord {
	return messageRecord{
		ID:        m.ID,
		UserName:  m.UserName,
		UserEmail: m.UserEmail,
		Subject:   m.Subject,
		Message:   m.Body,
		Status:    string(m.Status),
		CreatedAt: recordTime(m.CreatedAt),
		Replies:   repliesToRecords(m.Replies),
	}
}

func (r messageRecord) toDomain() *domain.Message {
	return &domain.Message{
		ID:        r.ID,
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
		Subject:   r.Subject,
		Body:      r.Message,
		Status:    domain.MessageStatus(r.Status),
		CreatedAt: r.CreatedAt.Time(),
		Replies:   recordsToReplies(r.Replies),
	}
}

func repliesToRecords(replies []domain.Reply) []replyRecord {
	out := make([]replyRecord, 0, len(replies))
	for _, r := range replies {
		out = append(out, replyRecord{Sender: r.Sender, Text: r.Text, Timestamp: recordTime(r.Timestamp)})
	}
	return out
}

func recordsToReplies(records []replyRecord) []domain.Reply {
	out := make([]domain.Reply, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Reply{Sender: r.Sender, Text: r.Text, Timestamp: r.Timestamp.Time()})
	}
	return out
}

func dashboardToRecord(d domain.Dashboard) dashboardRecord {
	return dashboardRecord{
		EnergyData: metricsToRecords(d.EnergyData),
		WaterData:  metricsToRecords(d.WaterData),
		WasteData:  metricsToRecords(d.WasteData),
	}
}

func (r dashboardRecord) toDomain() domain.Dashboard {
	return domain.Dashboard{
		EnergyData: recordsToMetrics(r.EnergyData),
		WaterData:  recordsToMetrics(r.WaterData),
		WasteData:  recordsToMetrics(r.WasteData),
	}
}

func metricsToRecords(points []domain.MetricPoint) []metricRecord {
	out := make([]metricRecord, 0, len(points))
	for _, p := range points {
		out = append(out, metricRecord{Week: p.Week, Current: p.Current, Previous: p.Previous})
	}
	return out
}

func recordsToMetrics(records []metricRecord) []domain.MetricPoint {
	out := make([]domain.MetricPoint, 0, len(records))
	for _, r := range records {
		out = append(out, domain.MetricPoint{Week: r.Week, Current: r.Current, Previous: r.Previous})
	}
	return out
}
