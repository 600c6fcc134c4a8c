package http

type createProjectReq struct {
	Title                 string   `form:"title" binding:"required,min=3,max=200"`
	DescriptionClient     string   `form:"descriptionClient" binding:"required,min=10,max=5000"`
	Use                   string   `form:"use" binding:"required,min=3,max=500"`
	Format                string   `form:"format" binding:"omitempty,max=200"`
	NbElements            string   `form:"nbElements" binding:"omitempty,oneof=unique multiple"`
	DimensionLength       *float64 `form:"dimensionLength" binding:"omitempty,gte=0,lte=10000"`
	DimensionWidth        *float64 `form:"dimensionWidth" binding:"omitempty,gte=0,lte=10000"`
	DimensionHeight       *float64 `form:"dimensionHeight" binding:"omitempty,gte=0,lte=10000"`
	DimensionNoConstraint bool     `form:"dimensionNoConstraint"`
	DetailLevel           string   `form:"detailLevel" binding:"omitempty,oneof=basique standard hd"`
	DeadlineType          string   `form:"deadlineType" binding:"omitempty,oneof=none flexible urgent"`
	DeadlineDate          string   `form:"deadlineDate"`
	Budget                string   `form:"budget" binding:"omitempty,oneof=less_100 100_300 300_500 500_1000 more_1000 discuss"`
}

type updateProjectReq struct {
	Title                 *string  `json:"title" binding:"omitempty,min=3,max=200"`
	DescriptionClient     *string  `json:"descriptionClient" binding:"omitempty,min=10,max=5000"`
	Use                   *string  `json:"use" binding:"omitempty,min=3,max=500"`
	Format                *string  `json:"format" binding:"omitempty,max=200"`
	NbElements            *string  `json:"nbElements" binding:"omitempty,oneof=unique multiple"`
	DimensionLength       *float64 `json:"dimensionLength" binding:"omitempty,gte=0,lte=10000"`
	DimensionWidth        *float64 `json:"dimensionWidth" binding:"omitempty,gte=0,lte=10000"`
	DimensionHeight       *float64 `json:"dimensionHeight" binding:"omitempty,gte=0,lte=10000"`
	DimensionNoConstraint *bool    `json:"dimensionNoConstraint"`
	DetailLevel           *string  `json:"detailLevel" binding:"omitempty,oneof=basique standard hd"`
	DeadlineType          *string  `json:"deadlineType" binding:"omitempty,oneof=none flexible urgent"`
	DeadlineDate          *string  `json:"deadlineDate"`
	Budget                *string  `json:"budget" binding:"omitempty,oneof=less_100 100_300 300_500 500_1000 more_1000 discuss"`
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

type createQuoteReq struct {
	Price float64 `json:"price" binding:"required"`
}
