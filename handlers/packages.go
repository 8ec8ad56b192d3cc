package handlers

import (
	"net/http"
	"strings"

	"arone/database/repository/decode"
	packageRepo "arone/database/repository/tourpackage"
	"arone/middleware"
	"arone/models"
	"arone/services/catalog"
	"arone/services/pricing"
	"arone/services/storage"
	"arone/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PackageHandler serves the public catalog and the vendor's package mutations.
type PackageHandler struct {
	Repo    packageRepo.PackageRepository
	Catalog catalog.CatalogService
	Images  storage.ImageStore
}

func NewPackageHandler(repo packageRepo.PackageRepository, svc catalog.CatalogService, images storage.ImageStore) *PackageHandler {
	return &PackageHandler{Repo: repo, Catalog: svc, Images: images}
}

func (h *PackageHandler) ListPackagesHandler(c *gin.Context) {
	var (
		pkgs []models.TourPackage
		err  error
	)
	if vendorID := c.Query("vendorId"); vendorID != "" {
		pkgs, err = h.Repo.GetByVendor(c.Request.Context(), vendorID)
	} else {
		pkgs, err = h.Repo.GetAll(c.Request.Context())
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkgs)
}

func (h *PackageHandler) GetPackageHandler(c *gin.Context) {
	pkg, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// CompareHandler quotes a base price across seasons and currencies. The base comes from
// ?price= or from the standard price of ?packageId=.
func (h *PackageHandler) CompareHandler(c *gin.Context) {
	var base float64
	if id := c.Query("packageId"); id != "" {
		pkg, err := h.Repo.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		base = pkg.Price
	} else {
		price, ok := decode.Float(c.Query("price"))
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "price must be a number", "")
			return
		}
		base = price
	}
	c.JSON(http.StatusOK, gin.H{"base": base, "quotes": pricing.Compare(base)})
}

func (h *PackageHandler) CreatePackageHandler(c *gin.Context) {
	var input models.PackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid package data", err.Error())
		return
	}
	id, err := h.Catalog.CreatePackage(c.Request.Context(), middleware.GetSession(c).UserID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *PackageHandler) UpdatePackageHandler(c *gin.Context) {
	var input models.PackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid package data", err.Error())
		return
	}
	if err := h.Catalog.UpdatePackage(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id"), input); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *PackageHandler) DeletePackageHandler(c *gin.Context) {
	if err := h.Catalog.DeletePackage(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImageHandler stores a multipart "file" and returns the URL for the package img field.
func (h *PackageHandler) UploadImageHandler(c *gin.Context) {
	if h.Images == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Image uploads are not configured", "")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	if fileHeader.Size > storage.MaxImageBytes {
		fail(c, storage.ErrImageTooLarge)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}
	defer file.Close()

	vendorID := middleware.GetSession(c).UserID
	url, err := h.Images.UploadImage(c.Request.Context(), vendorID, fileHeader.Filename, strings.TrimSpace(fileHeader.Header.Get("Content-Type")), file)
	if err != nil {
		fail(c, err)
		return
	}
	getLogger(c).Info("Package image uploaded", zap.String("vendorId", vendorID))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
