package s3

import (
	"context"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Bucket: "fotos"}, nil); err == nil {
		t.Error("expected endpoint error")
	}
	if _, err := NewClient(Config{Endpoint: "localhost:9000"}, nil); err == nil {
		t.Error("expected bucket error")
	}
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{
			name: "endpoint without scheme",
			cfg:  Config{Endpoint: "localhost:9000", Bucket: "fotos", KeyPrefix: "/listings/"},
			key:  "1700_sala.jpg",
			want: "http://localhost:9000/fotos/listings/1700_sala.jpg",
		},
		{
			name: "public endpoint",
			cfg:  Config{Endpoint: "http://minio:9000", Bucket: "fotos", PublicEndpoint: "https://cdn.example.com/"},
			key:  "a.png",
			want: "https://cdn.example.com/fotos/a.png",
		},
		{
			name: "ssl",
			cfg:  Config{Endpoint: "s3.example.com", Bucket: "fotos", UseSSL: true},
			key:  "a.png",
			want: "https://s3.example.com/fotos/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg, nil)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if got := c.objectURL(c.objectKey(tt.key)); got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploadRejectsEmptyInput(t *testing.T) {
	c, err := NewClient(Config{Endpoint: "localhost:9000", Bucket: "fotos"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Upload(context.Background(), "a.jpg", nil, ""); err == nil {
		t.Error("expected reader error")
	}
	if _, err := c.Upload(context.Background(), " / ", strings.NewReader("x"), ""); err == nil {
		t.Error("expected key error")
	}
}
