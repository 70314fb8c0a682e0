package models

const (
	LocaleArabic  = "ar"
	LocaleEnglish = "en"
)

// MessageKey names a user-facing notification text.
type MessageKey string

const (
	MsgSuccess            MessageKey = "success"
	MsgLoginSucceeded     MessageKey = "login_succeeded"
	MsgLoggedOut          MessageKey = "logged_out"
	MsgPostAdded          MessageKey = "post_added"
	MsgPostDeleted        MessageKey = "post_deleted"
	MsgFillAllFields      MessageKey = "fill_all_fields"
	MsgCommentRequired    MessageKey = "comment_required"
	MsgFileRequired       MessageKey = "file_required"
	MsgInvalidDate        MessageKey = "invalid_date"
	MsgInvalidSection     MessageKey = "invalid_section"
	MsgInvalidContentType MessageKey = "invalid_content_type"
	MsgInvalidLikes       MessageKey = "invalid_likes"
	MsgInvalidPayload     MessageKey = "invalid_payload"
	MsgLoadPostsFailed    MessageKey = "load_posts_failed"
	MsgLoadPostFailed     MessageKey = "load_post_failed"
	MsgPostNotFound       MessageKey = "post_not_found"
	MsgLikeFailed         MessageKey = "like_failed"
	MsgCommentFailed      MessageKey = "comment_failed"
	MsgAddPostFailed      MessageKey = "add_post_failed"
	MsgDeletePostFailed   MessageKey = "delete_post_failed"
	MsgUpdateLikesFailed  MessageKey = "update_likes_failed"
	MsgSessionSaveFailed  MessageKey = "session_save_failed"
	MsgInvalidCredentials MessageKey = "invalid_credentials"
	MsgLoginRequired      MessageKey = "login_required"
	MsgUploadFailed       MessageKey = "upload_failed"
	MsgUploadUnavailable  MessageKey = "upload_unavailable"
	MsgRateLimited        MessageKey = "rate_limited"
	MsgRouteNotFound      MessageKey = "route_not_found"
	MsgNoFile             MessageKey = "no_file"
	MsgFileTooLarge       MessageKey = "file_too_large"
	MsgHealthSaved        MessageKey = "health_saved"
	MsgFeedingRecorded    MessageKey = "feeding_recorded"
	MsgInternalError      MessageKey = "internal_error"
)

var messages = map[MessageKey][2]string{
	// {english, arabic}
	MsgSuccess:            {"success", "تمت العملية بنجاح"},
	MsgLoginSucceeded:     {"Logged in successfully", "تم تسجيل الدخول بنجاح"},
	MsgLoggedOut:          {"Logged out", "تم تسجيل الخروج"},
	MsgPostAdded:          {"Post added successfully", "تم إضافة المنشور بنجاح"},
	MsgPostDeleted:        {"Post deleted successfully", "تم حذف المنشور بنجاح"},
	MsgFillAllFields:      {"Please fill in all fields", "يرجى ملء جميع الحقول"},
	MsgCommentRequired:    {"Please write a comment first", "يرجى كتابة التعليق أولاً"},
	MsgFileRequired:       {"Please choose a file for this post", "يرجى اختيار ملف لهذا المنشور"},
	MsgInvalidDate:        {"Dates must use the YYYY-MM-DD format", "يرجى إدخال التاريخ بصيغة YYYY-MM-DD"},
	MsgInvalidSection:     {"Unknown section", "القسم غير معروف"},
	MsgInvalidContentType: {"Unknown content type", "نوع المحتوى غير معروف"},
	MsgInvalidLikes:       {"Likes cannot be negative", "لا يمكن أن يكون عدد الإعجابات سالباً"},
	MsgInvalidPayload:     {"Invalid request payload", "بيانات الطلب غير صالحة"},
	MsgLoadPostsFailed:    {"An error occurred while loading posts", "حدث خطأ أثناء تحميل المنشورات"},
	MsgLoadPostFailed:     {"An error occurred while loading the post", "حدث خطأ أثناء تحميل المنشور"},
	MsgPostNotFound:       {"Post not found", "المنشور غير موجود"},
	MsgLikeFailed:         {"An error occurred while liking the post", "حدث خطأ أثناء الإعجاب بالمنشور"},
	MsgCommentFailed:      {"An error occurred while adding the comment", "حدث خطأ أثناء إضافة التعليق"},
	MsgAddPostFailed:      {"An error occurred while adding the post", "حدث خطأ أثناء إضافة المنشور"},
	MsgDeletePostFailed:   {"An error occurred while deleting the post", "حدث خطأ أثناء حذف المنشور"},
	MsgUpdateLikesFailed:  {"An error occurred while updating likes", "حدث خطأ أثناء تحديث الإعجابات"},
	MsgSessionSaveFailed:  {"An error occurred while saving the login", "حدث خطأ أثناء حفظ بيانات الدخول"},
	MsgInvalidCredentials: {"Incorrect username or password", "اسم المستخدم أو كلمة المرور غير صحيحة"},
	MsgLoginRequired:      {"You must log in first", "يجب تسجيل الدخول أولاً"},
	MsgUploadFailed:       {"An error occurred while uploading the file", "حدث خطأ أثناء رفع الملف"},
	MsgUploadUnavailable:  {"File uploads are not configured", "رفع الملفات غير متاح حالياً"},
	MsgRateLimited:        {"Too many requests, please try again later", "طلبات كثيرة، يرجى المحاولة لاحقاً"},
	MsgRouteNotFound:      {"API route not found", "المسار غير موجود"},
	MsgNoFile:             {"No file uploaded", "لم يتم رفع أي ملف"},
	MsgFileTooLarge:       {"The file is too large", "حجم الملف كبير جداً"},
	MsgHealthSaved:        {"Health data saved", "تم حفظ البيانات الصحية"},
	MsgFeedingRecorded:    {"Feeding recorded", "تم تسجيل الرضعة"},
	MsgInternalError:      {"Internal server error", "حدث خطأ غير متوقع"},
}

// Message returns the text for key in locale, falling back to English.
func Message(key MessageKey, locale string) string {
	m, ok := messages[key]
	if !ok {
		return string(key)
	}
	if locale == LocaleArabic {
		return m[1]
	}
	return m[0]
}

// NormalizeLocale maps anything other than a supported locale to def.
func NormalizeLocale(locale, def string) string {
	switch locale {
	case LocaleArabic, LocaleEnglish:
		return locale
	}
	if def == LocaleArabic {
		return LocaleArabic
	}
	return LocaleEnglish
}
