package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for bulk delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixStatus is the suffix for status toggle routes.
	RouteSuffixStatus = "/status"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteProducts is the products admin route.
	RouteProducts = "/products"
	// RoutePosts is the posts admin route.
	RoutePosts = "/posts"
	// RouteCategories is the categories admin route.
	RouteCategories = "/categories"
	// RouteTags is the tags admin route.
	RouteTags = "/tags"
	// RoutePages is the pages admin route.
	RoutePages = "/pages"
	// RouteCountries is the countries admin route.
	RouteCountries = "/countries"
	// RouteStates is the states admin route.
	RouteStates = "/states"
	// RouteCities is the cities admin route.
	RouteCities = "/cities"
	// RouteCareers is the careers admin route.
	RouteCareers = "/careers"
	// RouteApplications is the job applications admin route.
	RouteApplications = "/applications"
	// RouteSliders is the sliders admin route.
	RouteSliders = "/sliders"
	// RouteFaqs is the FAQs admin route.
	RouteFaqs = "/faqs"
	// RouteVideos is the videos admin route.
	RouteVideos = "/videos"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteRoles is the roles admin route.
	RouteRoles = "/roles"
	// RoutePermissions is the permissions admin route.
	RoutePermissions = "/permissions"
	// RouteSettings is the settings admin route.
	RouteSettings = "/settings"
	// RouteEnquiries is the enquiries admin route.
	RouteEnquiries = "/enquiries"
	// RouteEvents is the events admin route.
	RouteEvents = "/events"
)

const (
	redirectAdmin             = "/admin"
	redirectAdminProducts     = redirectAdmin + RouteProducts
	redirectAdminProductsNew  = redirectAdminProducts + RouteSuffixNew
	redirectAdminPosts        = redirectAdmin + RoutePosts
	redirectAdminPostsNew     = redirectAdminPosts + RouteSuffixNew
	redirectAdminCategories   = redirectAdmin + RouteCategories
	redirectAdminTags         = redirectAdmin + RouteTags
	redirectAdminPages        = redirectAdmin + RoutePages
	redirectAdminPagesNew     = redirectAdminPages + RouteSuffixNew
	redirectAdminCountries    = redirectAdmin + RouteCountries
	redirectAdminStates       = redirectAdmin + RouteStates
	redirectAdminCities       = redirectAdmin + RouteCities
	redirectAdminCareers      = redirectAdmin + RouteCareers
	redirectAdminCareersNew   = redirectAdminCareers + RouteSuffixNew
	redirectAdminApplications = redirectAdmin + RouteApplications
	redirectAdminSliders      = redirectAdmin + RouteSliders
	redirectAdminFaqs         = redirectAdmin + RouteFaqs
	redirectAdminVideos       = redirectAdmin + RouteVideos
	redirectAdminUsers        = redirectAdmin + RouteUsers
	redirectAdminUsersNew     = redirectAdminUsers + RouteSuffixNew
	redirectAdminRoles        = redirectAdmin + RouteRoles
	redirectAdminPermissions  = redirectAdmin + RoutePermissions
	redirectAdminSettings     = redirectAdmin + RouteSettings
	redirectAdminEnquiries    = redirectAdmin + RouteEnquiries
	redirectAdminEvents       = redirectAdmin + RouteEvents
	redirectLogin             = RouteLogin
)
