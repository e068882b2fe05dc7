package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"imoveis/internal/app/commands"
	"imoveis/internal/app/dto"
	listingapp "imoveis/internal/app/handlers/listings"
	"imoveis/internal/app/queries"
	domainlistings "imoveis/internal/domain/listings"
)

// AdminHandler serves the password-protected listing management endpoints.
type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Uploader PhotoUploader
	Now      func() time.Time
	Logger   *slog.Logger
}

func (h AdminHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		return
	}
	result, err := queries.Ask[listingapp.ListAdminListingsQuery, []dto.AdminListingSummary](c.Request.Context(), h.Queries, listingapp.ListAdminListingsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create accepts the admin form as multipart or urlencoded data. Files under
// fotosFiles are stored first and appended after the URLs listed in fotos.
func (h AdminHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		return
	}
	cmd, fieldErrs := parseListingForm(c)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	var files []photoFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, fieldErrs = readPhotos(form.File[photoFilesField])
		if fieldErrs != nil {
			c.JSON(http.StatusBadRequest, fieldErrs)
			return
		}
	}
	if len(files) > 0 {
		if h.Uploader == nil {
			respondError(c, h.Logger, errors.New("photo uploader not configured"))
			return
		}
		urls, err := storePhotos(c.Request.Context(), h.Uploader, h.now(), files)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		cmd.Photos = append(cmd.Photos, urls...)
	}

	result, err := commands.Dispatch[listingapp.CreateListingCommand, dto.CreatedListing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) Delete(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		return
	}
	cmd := listingapp.DeleteListingCommand{ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, dto.DeletedListing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// parseListingForm coerces the form values. Empty numbers read as zero; text
// that is not a number is reported per field.
func parseListingForm(c *gin.Context) (listingapp.CreateListingCommand, *FieldErrors) {
	errs := newFieldErrors(msgInvalidData)
	number := func(field string) float64 {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs.add(field, labelFor(field)+" esta em formato invalido.")
		}
		return v
	}
	integer := func(field string) int {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			return 0
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs.add(field, labelFor(field)+" esta em formato invalido.")
		}
		return v
	}
	yesNo := func(field string) bool {
		switch strings.ToLower(strings.TrimSpace(c.PostForm(field))) {
		case "", "nao":
			return false
		case "sim":
			return true
		default:
			errs.add(field, labelFor(field)+" possui um valor invalido.")
			return false
		}
	}

	cmd := listingapp.CreateListingCommand{
		Title:        strings.TrimSpace(c.PostForm("titulo")),
		Description:  strings.TrimSpace(c.PostForm("descricao")),
		SalePrice:    number("preco"),
		RentPrice:    number("valorAluguel"),
		CondoFee:     number("condominio"),
		PropertyTax:  number("iptu"),
		City:         strings.TrimSpace(c.PostForm("cidade")),
		Neighborhood: strings.TrimSpace(c.PostForm("bairro")),
		AreaM2:       number("areaM2"),
		Bedrooms:     integer("quartos"),
		Suites:       integer("suites"),
		ParkingSpots: integer("vagas"),
		Photos:       splitCSV(c.PostForm("fotos")),
		Furnished:    yesNo("mobilado"),
		PetFriendly:  yesNo("aceitaPet"),
		Category:     domainlistings.Category(strings.TrimSpace(c.PostForm("categoria"))),
	}
	if len(errs.Fields) > 0 {
		return cmd, errs
	}
	return cmd, nil
}
