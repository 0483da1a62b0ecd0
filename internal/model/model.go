package model

import "time"

type Registration struct {
	ID             string
	Seq            int64
	Event          string
	FullName       string
	Email          string
	Phone          string
	Classification string
	Institution    string
	City           string
	CreatedAt      time.Time
}

type ProjectUpload struct {
	ID               string
	RegistrationCode string
	Email            string
	FilePath         string
	FileExt          string
	ContentType      string
	SizeBytes        int64
	Status           string
	CreatedAt        time.Time
}

type ContestSubmission struct {
	ID          string
	Email       string
	VideoURL    string
	SocialURL   string
	SubmittedAt time.Time
}

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
