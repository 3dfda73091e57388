package handlers

import (
	"time"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/findlessons/backend/services"
	"github.com/findlessons/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetTeacherProfile(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var teacher models.Teacher
	if err := database.DB.Preload("User").Preload("Subjects").
		First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	return c.JSON(teacher)
}

func GetMyTeacherProfile(c *fiber.Ctx) error {
	teacherID := currentProfileID(c)

	var teacher models.Teacher
	if err := database.DB.Preload("User").Preload("Subjects").
		First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}
	return c.JSON(teacher)
}

type UpdateTeacherRequest struct {
	City        string   `json:"city" validate:"required,max=100"`
	HourlyPrice float64  `json:"hourly_price" validate:"required,gt=0"`
	Subjects    []string `json:"subjects" validate:"required,min=1,dive,required,max=50"`
}

// UpdateMyTeacherProfile replaces the teacher's city, price and subject set.
// Subjects are upserted into the shared catalogue by normalized name.
func UpdateMyTeacherProfile(c *fiber.Ctx) error {
	teacherID := currentProfileID(c)

	var req UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		teacher.City = req.City
		teacher.HourlyPrice = req.HourlyPrice
		if err := tx.Save(&teacher).Error; err != nil {
			return err
		}

		subjects := make([]*models.Subject, 0, len(req.Subjects))
		for _, name := range utils.NormalizeSubjectNames(req.Subjects) {
			var subject models.Subject
			if err := tx.Where("name = ?", name).
				FirstOrCreate(&subject, models.Subject{Name: name}).Error; err != nil {
				return err
			}
			subjects = append(subjects, &subject)
		}
		return tx.Model(&teacher).Association("Subjects").Replace(subjects)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update teacher profile"})
	}

	database.DB.Preload("User").Preload("Subjects").First(&teacher, "user_id = ?", teacherID)
	return c.JSON(teacher)
}

func ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := database.DB.Order("name asc").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve subjects"})
	}
	return c.JSON(subjects)
}

// SearchTeachers filters teachers by subject and city, optionally restricted
// to those with availability inside ?from=&to= (dates), ordered by
// ?order_by=price|stars.
func SearchTeachers(c *fiber.Ctx) error {
	subject := c.Query("subject")
	city := c.Query("city")
	if subject == "" || city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "subject and city are required"})
	}

	var from, to *time.Time
	if fromStr, toStr := c.Query("from"), c.Query("to"); fromStr != "" && toStr != "" {
		f, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
		}
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
		}
		from, to = &f, &t
	}

	teachers, err := services.FindTeachers(subject, city, from, to, c.Query("order_by", "stars"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(teachers)
}
