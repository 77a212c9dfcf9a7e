// Package s3 resolves static files from Amazon S3 and S3-compatible services.
//
// Resolver implements static.Resolver on top of the AWS SDK v2. Request paths
// map to object keys below an optional prefix, and key prefixes that contain
// objects behave as directories, so the static server can serve their index
// document. Resolution issues a HEAD request only; the object body is fetched
// on the first read, which keeps 304 responses free of downloads.
//
// # Configuration
//
//	cfg := s3.Config{
//		Bucket:         "my-site",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000", // MinIO
//		ForcePathStyle: true,
//		Prefix:         "public",
//	}
//
//	resolver, err := s3.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	http.ListenAndServe(":8080", static.New(resolver))
//
// Static credentials are used when AccessKeyID and SecretKey are both set;
// otherwise the default AWS credential chain applies.
//
// # Errors
//
// S3 errors are mapped onto the resolver contract: NoSuchKey and NotFound become
// static.ErrNotFound, AccessDenied becomes static.ErrPermission, context errors
// pass through unchanged and everything else is wrapped with the failing operation.
//
// # Testing
//
// Use WithS3Client to inject a mock implementing S3Client.
package s3
