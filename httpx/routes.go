package httpx

// Route path constants
// All API routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthSendOTP   = "/auth/send-otp"
	RouteAuthVerifyOTP = "/auth/verify-otp"
	RouteAuthRefresh   = "/auth/refresh"
	RouteAuthLogout    = "/auth/logout"

	// Job Routes
	RouteJobs     = "/jobs"
	RouteJobsMine = "/jobs/mine"

	// Application Routes
	RouteApplications = "/applications"

	// Chat Routes
	RouteChats = "/chats"

	// Profile Routes
	RouteProfiles                 = "/profiles"
	RouteProfilesCreate           = "/profiles/create"
	RouteProfilesProcessInterview = "/profiles/process-interview"
)
