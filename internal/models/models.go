package models

// The gorm tags drive AutoMigrate; the services query these tables with
// hand-written SQL, so column names here must match the SQL in services.

type Company struct {
	Handle       string  `gorm:"primaryKey;size:25" json:"handle"`
	Name         string  `gorm:"uniqueIndex;not null" json:"name"`
	NumEmployees *int    `gorm:"column:num_employees;check:num_employees >= 0" json:"numEmployees"`
	Description  string  `gorm:"type:text;not null;default:''" json:"description"`
	LogoURL      *string `gorm:"column:logo_url" json:"logoUrl"`

	// Filled only by CompanyService.Get.
	Jobs []Job `gorm:"foreignKey:CompanyHandle;references:Handle;constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

type Job struct {
	ID     int     `gorm:"primaryKey" json:"id"`
	Title  string  `gorm:"not null" json:"title"`
	Salary *int    `gorm:"check:salary >= 0" json:"salary"`
	Equity *string `gorm:"type:numeric;check:equity <= 1.0" json:"equity"`

	CompanyHandle string `gorm:"column:company_handle;size:25;not null;index" json:"companyHandle"`
}

type User struct {
	Username  string `gorm:"primaryKey;size:25" json:"username"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `gorm:"column:first_name;not null" json:"firstName"`
	LastName  string `gorm:"column:last_name;not null" json:"lastName"`
	Email     string `gorm:"not null" json:"email"`
	IsAdmin   bool   `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`

	// IDs of jobs applied to; filled only by UserService.Get.
	Jobs []int `gorm:"-" json:"jobs,omitempty"`
}

// Application links a user to a job they applied for.
type Application struct {
	Username string `gorm:"primaryKey;size:25" json:"username"`
	JobID    int    `gorm:"column:job_id;primaryKey" json:"jobId"`

	User User `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	Job  Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}
