// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keygate/keygate-backend/internal/services"
	"github.com/keygate/keygate-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	licenseService *services.LicenseService
}

func NewProductHandler(productService *services.ProductService, licenseService *services.LicenseService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		licenseService: licenseService,
	}
}

// POST /api/product/create
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "All the fields are required.")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrProductExists) {
			utils.ConflictResponse(c, "The product already exists.")
			return
		}
		utils.InternalErrorResponse(c, "Error while creating the product.")
		return
	}

	utils.CreatedResponse(c, product)
}

// GET /api/product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error retrieving product.")
		return
	}

	utils.OKResponse(c, product)
}

// GET /api/product
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Error retrieving products.")
		return
	}

	utils.OKResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /api/product/:id/withLicenses
func (h *ProductHandler) GetProductWithLicenses(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	product, err := h.productService.GetWithLicenses(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error retrieving product with licenses.")
		return
	}

	utils.OKResponse(c, gin.H{
		"product":  product,
		"licenses": product.Licenses,
	})
}

// PUT /api/product/update/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body.")
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found.")
			return
		}
		if errors.Is(err, services.ErrProductExists) {
			utils.ConflictResponse(c, "The product already exists.")
			return
		}
		utils.InternalErrorResponse(c, "Error updating product.")
		return
	}

	utils.OKResponse(c, product)
}

// DELETE /api/product/delete/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID.")
		return
	}

	product, err := h.productService.Delete(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found.")
			return
		}
		utils.InternalErrorResponse(c, "Error while deleting the product.")
		return
	}

	utils.OKResponse(c, gin.H{
		"message": "Product deleted.",
		"product": product,
	})
}
