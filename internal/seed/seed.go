// Package seed holds the demonstration practice data loaded at start-up when
// VISADESK_SEED is on. Dates are relative to the supplied time so dashboard
// figures stay meaningful whenever the server starts.
package seed

import (
	"context"
	"time"

	appmodels "visadesk/internal/application/models"
	clientmodels "visadesk/internal/client/models"
	docmodels "visadesk/internal/document/models"
	"visadesk/internal/storage"
)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

// Clients returns the demonstration client list.
func Clients(now time.Time) []clientmodels.Client {
	mk := func(id int, first, last, email, phone, nationality, dob, passport string, status clientmodels.Status, age int) clientmodels.Client {
		created := now.Add(-days(age))
		return clientmodels.Client{
			ID: id, FirstName: first, LastName: last, Email: email, Phone: phone,
			Nationality: nationality, DateOfBirth: dob, PassportNumber: passport,
			Status: status, CreatedAt: created, UpdatedAt: created,
		}
	}
	return []clientmodels.Client{
		mk(1, "Sarah", "Chen", "sarah.chen@example.com", "+61 412 345 678", "Chinese", "1990-04-12", "E12345678", clientmodels.StatusActive, 120),
		mk(2, "Raj", "Patel", "raj.patel@example.com", "+61 423 456 789", "Indian", "1987-11-03", "Z9876543", clientmodels.StatusActive, 95),
		mk(3, "Maria", "Garcia", "maria.garcia@example.com", "+61 434 567 890", "Spanish", "1993-06-21", "PAB123456", clientmodels.StatusCompleted, 300),
		mk(4, "James", "Wilson", "james.wilson@example.com", "+61 445 678 901", "British", "1985-01-30", "533412890", clientmodels.StatusPending, 20),
		mk(5, "Aiko", "Tanaka", "aiko.tanaka@example.com", "+61 456 789 012", "Japanese", "1998-09-15", "TK4455667", clientmodels.StatusActive, 45),
		mk(6, "Lucas", "Oliveira", "lucas.oliveira@example.com", "+61 467 890 123", "Brazilian", "1995-12-08", "FX998877", clientmodels.StatusPending, 7),
	}
}

// Applications returns the demonstration applications. Application 4 was
// approved this month.
func Applications(now time.Time) []appmodels.Application {
	docs := func(verified ...bool) []appmodels.Document {
		names := []string{"Passport", "Birth Certificate", "English Test Results", "Skills Assessment"}
		out := make([]appmodels.Document, len(verified))
		for i, v := range verified {
			out[i] = appmodels.Document{Name: names[i%len(names)], Required: true, Status: "uploaded", Verified: v}
		}
		return out
	}
	mk := func(id, clientID int, client, visaType, subclass string, status appmodels.Status, ref, agent string, age, touched int, d []appmodels.Document) appmodels.Application {
		lodged := now.Add(-days(age))
		return appmodels.Application{
			ID: id, ClientID: clientID, ClientName: client, VisaType: visaType, VisaSubclass: subclass,
			Status: status, ReferenceNumber: ref, AssignedAgent: agent,
			ApplicantDetails: map[string]string{}, Documents: d,
			LodgementDate: lodged, CreatedAt: lodged, UpdatedAt: now.Add(-days(touched)),
		}
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	approvedAgo := int(now.Sub(startOfMonth) / (24 * time.Hour))
	return []appmodels.Application{
		mk(1, 1, "Sarah Chen", "Skilled Independent", "189", appmodels.StatusInProgress, "VS-2024-7F3A21C0", "Sarah Mitchell", 110, 3, docs(true, false, false)),
		mk(2, 2, "Raj Patel", "Temporary Skill Shortage", "482", appmodels.StatusDocumentReview, "VS-2024-91B0D4E2", "Sarah Mitchell", 90, 5, docs(true, true, false, false)),
		mk(3, 5, "Aiko Tanaka", "Student", "500", appmodels.StatusProcessing, "VS-2025-0C44E9A7", "Tom Nguyen", 40, 10, docs(true, true)),
		mk(4, 3, "Maria Garcia", "Partner", "820/801", appmodels.StatusApproved, "VS-2024-5D2286F1", "Tom Nguyen", 280, approvedAgo, docs(true, true, true)),
		mk(5, 3, "Maria Garcia", "Skilled Nominated", "190", appmodels.StatusRejected, "VS-2023-AA10BC34", "Sarah Mitchell", 400, 200, docs(true)),
		mk(6, 4, "James Wilson", "Skilled Nominated", "190", appmodels.StatusInProgress, "VS-2025-3E77F015", "Tom Nguyen", 15, 1, docs(false)),
	}
}

// Documents returns the demonstration document library.
func Documents(now time.Time) []docmodels.Document {
	at := func(d int) *time.Time {
		t := now.Add(days(d))
		return &t
	}
	mk := func(id, appID int, ref, client string, typ docmodels.Type, file string, age int, expiry *time.Time, verified bool, status string) docmodels.Document {
		return docmodels.Document{
			ID: id, ApplicationID: appID, ApplicationRef: ref, ClientName: client, Type: typ,
			FileName: file, UploadDate: now.Add(-days(age)), ExpiryDate: expiry, Verified: verified, Status: status,
		}
	}
	return []docmodels.Document{
		mk(1, 1, "VS-2024-7F3A21C0", "Sarah Chen", docmodels.TypePassport, "chen_passport.pdf", 100, at(1400), true, docmodels.StatusUploaded),
		mk(2, 1, "VS-2024-7F3A21C0", "Sarah Chen", docmodels.TypeHealthExam, "chen_medical.pdf", 60, at(21), false, docmodels.StatusUploaded),
		mk(3, 2, "VS-2024-91B0D4E2", "Raj Patel", docmodels.TypeEnglishTest, "patel_ielts.pdf", 80, at(-10), false, docmodels.StatusUploaded),
		mk(4, 2, "VS-2024-91B0D4E2", "Raj Patel", docmodels.TypeSkillsAssessment, "patel_acs.pdf", 75, nil, true, docmodels.StatusUploaded),
		mk(5, 2, "VS-2024-91B0D4E2", "Raj Patel", docmodels.TypeCharacterCheck, "", 0, nil, false, docmodels.StatusMissing),
		mk(6, 3, "VS-2025-0C44E9A7", "Aiko Tanaka", docmodels.TypeFinancial, "tanaka_bank_statement.pdf", 35, nil, false, docmodels.StatusUploaded),
		mk(7, 4, "VS-2024-5D2286F1", "Maria Garcia", docmodels.TypeRelationship, "garcia_relationship.pdf", 270, nil, true, docmodels.StatusUploaded),
		mk(8, 6, "VS-2025-3E77F015", "James Wilson", docmodels.TypeBirthCertificate, "wilson_birth_cert.pdf", 12, nil, false, docmodels.StatusUploaded),
	}
}

// ApplicationSeeder is implemented by persistent application stores.
type ApplicationSeeder interface {
	SeedIfEmpty(ctx context.Context, apps ...appmodels.Application) (bool, error)
}

// Collections loads the demonstration data into in-memory collections. A nil
// collection is skipped.
func Collections(now time.Time, clients *storage.Collection[clientmodels.Client], apps *storage.Collection[appmodels.Application], docs *storage.Collection[docmodels.Document]) {
	if clients != nil {
		clients.Seed(Clients(now)...)
	}
	if apps != nil {
		apps.Seed(Applications(now)...)
	}
	if docs != nil {
		docs.Seed(Documents(now)...)
	}
}
