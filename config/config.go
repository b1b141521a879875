package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type CarrierApiConfig struct {
	BaseUri string
	Token   string
}

type GeocodeApiConfig struct {
	BaseUri string
	ApiKey  string
}

type MailerApiConfig struct {
	BaseUri string
	ApiKey  string
	From    string
}

type MirrorApiConfig struct {
	BaseUri       string
	ApiKey        string
	BaseId        string
	OutboundTable string
	InboundTable  string
}

// OriginAddress is the ship-from address used on every label and pickup.
type OriginAddress struct {
	Company string
	Name    string
	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Country string
	Phone   string
	Email   string
}

type Config struct {
	DSN           string
	LogsDirectory string

	// TrackingDomain is the host used for branded tracking links,
	// e.g. "track.example.com".
	TrackingDomain string
	// CustomsSigner is the name placed on customs declarations.
	CustomsSigner string
	// IntakeExports are local CSV exports of the intake form responses.
	IntakeExports []string

	PrinterUrl string

	CarrierApi *CarrierApiConfig
	GeocodeApi *GeocodeApiConfig
	MailerApi  *MailerApiConfig
	MirrorApi  *MirrorApiConfig
	Origin     *OriginAddress
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return &Config{
		DSN:            os.Getenv("DATABASE_DSN"),
		LogsDirectory:  os.Getenv("LOGS_DIRECTORY"),
		TrackingDomain: os.Getenv("TRACKING_DOMAIN"),
		CustomsSigner:  os.Getenv("CUSTOMS_SIGNER"),
		IntakeExports:  splitList(os.Getenv("INTAKE_EXPORTS")),
		PrinterUrl:     os.Getenv("PRINTER_URL"),
		CarrierApi: &CarrierApiConfig{
			BaseUri: os.Getenv("CARRIER_API_BASE_URI"),
			Token:   os.Getenv("CARRIER_API_TOKEN"),
		},
		GeocodeApi: &GeocodeApiConfig{
			BaseUri: os.Getenv("GEOCODE_API_BASE_URI"),
			ApiKey:  os.Getenv("GEOCODE_API_KEY"),
		},
		MailerApi: &MailerApiConfig{
			BaseUri: os.Getenv("MAILER_API_BASE_URI"),
			ApiKey:  os.Getenv("MAILER_API_KEY"),
			From:    os.Getenv("MAILER_FROM"),
		},
		MirrorApi: &MirrorApiConfig{
			BaseUri:       os.Getenv("MIRROR_API_BASE_URI"),
			ApiKey:        os.Getenv("MIRROR_API_KEY"),
			BaseId:        os.Getenv("MIRROR_BASE_ID"),
			OutboundTable: os.Getenv("MIRROR_OUTBOUND_TABLE"),
			InboundTable:  os.Getenv("MIRROR_INBOUND_TABLE"),
		},
		Origin: &OriginAddress{
			Company: os.Getenv("ORIGIN_COMPANY"),
			Name:    os.Getenv("ORIGIN_NAME"),
			Street1: os.Getenv("ORIGIN_STREET_1"),
			Street2: os.Getenv("ORIGIN_STREET_2"),
			City:    os.Getenv("ORIGIN_CITY"),
			State:   os.Getenv("ORIGIN_STATE"),
			Zip:     os.Getenv("ORIGIN_ZIP"),
			Country: os.Getenv("ORIGIN_COUNTRY"),
			Phone:   os.Getenv("ORIGIN_PHONE"),
			Email:   os.Getenv("ORIGIN_EMAIL"),
		},
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
